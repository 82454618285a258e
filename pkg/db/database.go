package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/app"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/signals"
)

// ErrNotBound is returned when the database is used before it was bound to
// an application or a connection
var ErrNotBound = errors.New("database is not bound to a connection")

// Database is the application's handle on the ORM
type Database struct {
	mu   sync.RWMutex
	conn *gorm.DB
	app  *app.Application

	once    sync.Once
	initErr error

	schemas sync.Map
}

// New creates an unbound database
func New() *Database {
	return &Database{}
}

// Open creates a database bound to an existing connection
func Open(conn *gorm.DB) *Database {
	d := New()
	d.conn = conn
	return d
}

// Register subscribes the database to the application-configured signal of
// bus, so that it binds itself to the application once it is configured.
func (d *Database) Register(bus *app.Bus) {
	bus.Connect(signals.NameApplicationConfigured, d.InitApp)
}

// InitApp connects to the database named by the application configuration.
// Only the first call does any work; later calls return its result.
func (d *Database) InitApp(ctx context.Context, a *app.Application) error {
	d.once.Do(func() {
		cfg := a.Config()
		if cfg == nil {
			d.initErr = app.ErrNoConfig
			return
		}

		d.mu.RLock()
		bound := d.conn != nil
		d.mu.RUnlock()

		if !bound {
			conn, err := Connect(Config{URL: cfg.DatabaseURL, LogLevel: cfg.LogLevel})
			if err != nil {
				d.initErr = err
				return
			}
			d.mu.Lock()
			d.conn = conn
			d.mu.Unlock()
		}

		d.mu.Lock()
		d.app = a
		d.mu.Unlock()

		a.Log.Debug("database bound to application")
	})
	return d.initErr
}

// App returns the application the database is bound to, if any
func (d *Database) App() *app.Application {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.app
}

// DB returns the underlying GORM connection, or nil when unbound
func (d *Database) DB() *gorm.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conn
}

// WithContext returns a session of the underlying connection bound to ctx
func (d *Database) WithContext(ctx context.Context) (*gorm.DB, error) {
	conn := d.DB()
	if conn == nil {
		return nil, ErrNotBound
	}
	return conn.WithContext(ctx), nil
}

// Migrate creates or updates the tables of every model. Production
// PostgreSQL schemas are managed by the SQL migrations instead.
func (d *Database) Migrate(ctx context.Context) error {
	conn, err := d.WithContext(ctx)
	if err != nil {
		return err
	}
	if err := conn.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	conn := d.DB()
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
