package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Backend names double as the per-backend subdirectories under the
// migrations root, since sqlite and postgres disagree on DDL.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Resolve maps an application connection string to the golang-migrate
// database URL and the backend migration subdirectory.
func Resolve(connURL string) (databaseURL, backend string, err error) {
	raw := strings.TrimSpace(connURL)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return raw, BackendPostgres, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return "sqlite3://" + strings.TrimPrefix(raw, "sqlite://"), BackendSQLite, nil
	case strings.HasPrefix(raw, "sqlite3://"):
		return raw, BackendSQLite, nil
	case strings.HasPrefix(raw, "file:"):
		return "sqlite3://" + strings.TrimPrefix(raw, "file:"), BackendSQLite, nil
	case raw == "":
		return "", "", fmt.Errorf("empty connection string")
	case strings.Contains(raw, "://"):
		return "", "", fmt.Errorf("unsupported database scheme in %q", raw)
	default:
		return "sqlite3://" + raw, BackendSQLite, nil
	}
}

// New builds a migrator for the given connection string using the
// backend-specific subdirectory under dir.
func New(connURL, dir string) (*migrate.Migrate, error) {
	databaseURL, backend, err := Resolve(connURL)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(filepath.Join(dir, backend))
	if err != nil {
		return nil, fmt.Errorf("resolve migrations path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("migrations directory not found: %s", absPath)
	}
	m, err := migrate.New("file://"+absPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// Create writes an empty up/down revision pair with the next sequence
// number into every backend subdirectory and returns the created paths.
func Create(dir, name string) ([]string, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("revision name is empty")
	}
	var created []string
	for _, backend := range []string{BackendSQLite, BackendPostgres} {
		sub := filepath.Join(dir, backend)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, err
		}
		seq, err := nextSequence(sub)
		if err != nil {
			return nil, err
		}
		for _, direction := range []string{"up", "down"} {
			path := filepath.Join(sub, fmt.Sprintf("%06d_%s.%s.sql", seq, slug, direction))
			if err := os.WriteFile(path, []byte("-- "+slug+" ("+direction+")\n"), 0o644); err != nil {
				return nil, err
			}
			created = append(created, path)
		}
	}
	return created, nil
}

func nextSequence(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	seqs := make([]int, 0, len(entries))
	for _, e := range entries {
		parts := strings.SplitN(e.Name(), "_", 2)
		if len(parts) != 2 {
			continue
		}
		if n, err := strconv.Atoi(parts[0]); err == nil {
			seqs = append(seqs, n)
		}
	}
	if len(seqs) == 0 {
		return 1, nil
	}
	sort.Ints(seqs)
	return seqs[len(seqs)-1] + 1, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return strings.Trim(s, "_")
}
