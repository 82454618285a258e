package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/db"
)

// migrationsTable keeps golang-migrate's bookkeeping apart from any table
// the schema itself may own.
const migrationsTable = "porch_schema_migrations"

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

For PostgreSQL this runs every pending migration from db/migrations. SQLite
databases are created from the models instead.

Example:
  porchctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			fmt.Fprintln(os.Stderr, "Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  porchctl db down      # Rollback 1 migration
  porchctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "Invalid number of steps: %s\n", args[0])
				os.Exit(1)
			}
			steps = n
		}

		if err := runMigrationsDown(steps); err != nil {
			fmt.Fprintln(os.Stderr, "Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func getDatabaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		dbURL = db.URL()
	}
	if dbURL == "" {
		return "", errors.New("DATABASE_URL environment variable is required")
	}
	return dbURL, nil
}

// withMigrationsTable points golang-migrate at its own bookkeeping table
func withMigrationsTable(dbURL string) string {
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + migrationsTable
	}
	return dbURL + "?x-migrations-table=" + migrationsTable
}

func runMigrations() error {
	dbURL, err := getDatabaseURL()
	if err != nil {
		return err
	}

	if db.IsSQLite(dbURL) {
		return withEnvironment(func(ctx context.Context, env *environment) error {
			if err := env.db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("SQLite schema is up to date")
			return nil
		})
	}

	m, err := createMigrateInstance(withMigrationsTable(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", newVersion)

	files, err := upMigrations()
	if err == nil {
		fmt.Printf("Migrations complete (%d available)\n", len(files))
	}
	return nil
}

// upMigrations returns the up migration files in version order
func upMigrations() ([]string, error) {
	fsys, err := migrationSource()
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// pendingMigrations returns the files whose version is above current
func pendingMigrations(files []string, current uint) []string {
	var pending []string
	for _, file := range files {
		prefix, _, _ := strings.Cut(file, "_")
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil || uint(version) <= current {
			continue
		}
		pending = append(pending, file)
	}
	return pending
}

func printPending(files []string) {
	if len(files) == 0 {
		fmt.Println("No pending migrations")
		return
	}
	fmt.Printf("Pending migrations (%d):\n", len(files))
	for _, file := range files {
		fmt.Printf("  %s\n", file)
	}
}

func runMigrationsDown(steps int) error {
	dbURL, err := getDatabaseURL()
	if err != nil {
		return err
	}
	if db.IsSQLite(dbURL) {
		return errors.New("rollback is only supported on PostgreSQL")
	}

	m, err := createMigrateInstance(withMigrationsTable(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Rolled back every migration")
		return nil
	}
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus() error {
	dbURL, err := getDatabaseURL()
	if err != nil {
		return err
	}
	if db.IsSQLite(dbURL) {
		fmt.Println("SQLite databases are migrated from the models; no version is recorded")
		return nil
	}

	m, err := createMigrateInstance(withMigrationsTable(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	files, err := upMigrations()
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations have been applied yet")
			printPending(files)
			return nil
		}
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}
	printPending(pendingMigrations(files, version))
	return nil
}
