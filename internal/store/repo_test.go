package store

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	gormLogger := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		LogLevel: logger.Silent,
	})
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormLogger})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := &DB{DB: gdb}
	AutoMigrate(db)
	return NewRepository(db)
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &User{Email: "  Alice@Example.COM ", HashedPassword: "hash", IsActive: true}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.UpdatedAt != nil {
		t.Error("UpdatedAt should be nil on create")
	}

	got, err := repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("GetUser email = %q", got.Email)
	}

	byEmail, err := repo.GetUserByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail id = %d, want %d", byEmail.ID, user.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &User{Email: "a@b.c", HashedPassword: "h"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := repo.CreateUser(ctx, &User{Email: "A@B.C", HashedPassword: "h"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetUser(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "nobody@x.y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByEmail: expected ErrNotFound, got %v", err)
	}
}

func TestListUsersPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	emails := []string{"a@x.y", "b@x.y", "c@x.y", "d@x.y"}
	for _, e := range emails {
		if err := repo.CreateUser(ctx, &User{Email: e, HashedPassword: "h"}); err != nil {
			t.Fatalf("CreateUser(%s): %v", e, err)
		}
	}

	page, err := repo.ListUsers(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len = %d, want 2", len(page))
	}
	if page[0].Email != "b@x.y" || page[1].Email != "c@x.y" {
		t.Errorf("wrong page: %q, %q", page[0].Email, page[1].Email)
	}
}

func TestSaveUserStampsUpdatedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &User{Email: "a@x.y", HashedPassword: "h", IsActive: true}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user.IsActive = false
	before := time.Now().UTC().Add(-time.Second)
	if err := repo.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if user.UpdatedAt == nil || user.UpdatedAt.Before(before) {
		t.Fatalf("UpdatedAt not stamped: %v", user.UpdatedAt)
	}

	got, err := repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.IsActive {
		t.Error("IsActive change not persisted")
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not persisted")
	}
}

func TestDeleteUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := &User{Email: "a@x.y", HashedPassword: "h"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := repo.GetUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
