//go:build !embed_migrations

package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

func migrationsPath() string {
	if path := os.Getenv("PORCH_MIGRATIONS_PATH"); path != "" {
		return path
	}
	return defaultMigrationsPath
}

// migrationSource returns the migrations directory on disk
func migrationSource() (fs.FS, error) {
	return os.DirFS(migrationsPath()), nil
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	path := migrationsPath()
	fmt.Printf("Running migrations from file://%s\n", path)
	return migrate.New("file://"+path, dbURL)
}
