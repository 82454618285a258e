//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/saltstack/porch/db"
)

// migrationSource returns the migrations compiled into the binary
func migrationSource() (fs.FS, error) {
	return fs.Sub(migrations.Migrations, "migrations")
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	fsys, err := migrationSource()
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	source, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", source, dbURL)
}
