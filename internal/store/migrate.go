package store

import "log"

// AutoMigrate syncs the declared models with the schema. Used in local
// development; production deployments run versioned migrations with the
// migrate CLI instead.
func AutoMigrate(db *DB) {
	if err := db.AutoMigrate(
		&User{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
}
