package db

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// LogLevel is a logrus level name controlling SQL logging; empty silences it
	LogLevel string
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	dialector, err := Dialector(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Dialector picks the GORM driver for a database URL
func Dialector(dbURL string) (gorm.Dialector, error) {
	if IsSQLite(dbURL) {
		return sqlite.Open(SQLiteDSN(dbURL)), nil
	}

	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// SQLiteDSN turns a sqlite:// URL into a go-sqlite3 DSN with foreign keys
// enforced. "sqlite://" and "sqlite://:memory:" give a shared in-memory
// database.
func SQLiteDSN(dbURL string) string {
	path := strings.TrimPrefix(dbURL, "sqlite://")

	query := ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, query = path[:i], path[i+1:]
	}

	if path == "" || path == ":memory:" {
		path = "file::memory:"
		query = joinQuery(query, "cache=shared")
	}
	if !strings.Contains(query, "_foreign_keys") && !strings.Contains(query, "_fk") {
		query = joinQuery(query, "_foreign_keys=on")
	}
	return path + "?" + query
}

func joinQuery(query, param string) string {
	if query == "" {
		return param
	}
	return query + "&" + param
}

// IsSQLite reports whether a database URL points at SQLite
func IsSQLite(dbURL string) bool {
	return strings.HasPrefix(dbURL, "sqlite://")
}

// URL returns the database URL from environment.
// Returns empty string if neither PORCH_DATABASE_URL nor DATABASE_URL is set.
func URL() string {
	if u := os.Getenv("PORCH_DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("DATABASE_URL")
}
