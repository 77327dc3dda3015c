package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/m-marika/userbase-backend/internal/config"
	"github.com/m-marika/userbase-backend/internal/migration"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema revisions",
	Long: `Applies versioned SQL revisions to the database selected by
DATABASE_URL (sqlite in local mode, postgres in containers).`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending revisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("schema already up to date")
				return nil
			}
			return err
		}
		return printVersion(m)
	},
}

var downCmd = &cobra.Command{
	Use:   "down [n]",
	Short: "Roll back n revisions (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)
		if err := m.Steps(-steps); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("nothing to roll back")
				return nil
			}
			return err
		}
		return printVersion(m)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)
		return printVersion(m)
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running revisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)
		if err := m.Force(v); err != nil {
			return err
		}
		return printVersion(m)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty up/down revision pair for every backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := migration.Create(migrationsDir, args[0])
		if err != nil {
			return err
		}
		for _, path := range created {
			fmt.Println(path)
		}
		return nil
	},
}

func newMigrator() (*migrate.Migrate, error) {
	cfg := config.Load()
	return migration.New(cfg.Database.URL, migrationsDir)
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		fmt.Fprintf(os.Stderr, "close source: %v\n", srcErr)
	}
	if dbErr != nil {
		fmt.Fprintf(os.Stderr, "close database: %v\n", dbErr)
	}
}

func printVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("schema version: none")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d (dirty: %v)\n", version, dirty)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "migrations root directory")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd, createCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
