package store

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Open connects to the backend selected by the connection string scheme.
// A bad connection string is fatal: the process must not start serving
// against an undefined backend.
func Open(connURL string) *DB {
	dialector, err := dialectorFor(connURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	gormLogger := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	return &DB{DB: gdb}
}

func dialectorFor(connURL string) (gorm.Dialector, error) {
	raw := strings.TrimSpace(connURL)
	if raw == "" {
		return nil, fmt.Errorf("empty connection string")
	}

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse connection string: %w", err)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("postgres connection string has no host")
		}
		return postgres.Open(raw), nil
	case strings.HasPrefix(raw, "sqlite://"):
		return sqliteDialector(strings.TrimPrefix(raw, "sqlite://"))
	case strings.HasPrefix(raw, "sqlite3://"):
		return sqliteDialector(strings.TrimPrefix(raw, "sqlite3://"))
	case strings.HasPrefix(raw, "file:"):
		return sqliteDialector(strings.TrimPrefix(raw, "file:"))
	case strings.Contains(raw, "://"):
		return nil, fmt.Errorf("unsupported database scheme in %q", raw)
	default:
		// Bare path, local sqlite file.
		return sqliteDialector(raw)
	}
}

func sqliteDialector(path string) (gorm.Dialector, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite connection string has no path")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}
	return sqlite.Open(path), nil
}
