package store

import "time"

type User struct {
	ID             uint       `gorm:"primaryKey"`
	Email          string     `gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string     `gorm:"size:255;not null"`
	IsActive       bool       `gorm:"default:true"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false"`
}
