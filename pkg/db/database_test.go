package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/app"
	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/db/dbtest"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/signals"
)

func TestDatabaseBindsOnApplicationConfigured(t *testing.T) {
	cfg := &config.PorchConfig{
		DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "porch.db"),
		Port:        8000,
	}
	bus := signals.NewBus[*app.Application]()

	database := New()
	database.Register(bus)
	assert.Equal(t, 1, bus.Receivers(signals.NameApplicationConfigured))
	assert.Nil(t, database.DB())

	a := app.New(cfg, bus)
	require.NoError(t, a.Configure(context.Background()))
	t.Cleanup(func() { _ = database.Close() })

	conn := database.DB()
	require.NotNil(t, conn)
	assert.Same(t, a, database.App())

	// A second initialisation keeps the first connection.
	require.NoError(t, database.InitApp(context.Background(), a))
	assert.Same(t, conn, database.DB())

	require.NoError(t, database.Migrate(context.Background()))
	assert.True(t, conn.Migrator().HasTable(&model.Account{}))
	assert.True(t, conn.Migrator().HasTable(model.GroupAccountsTable))
}

func TestInitAppReportsConnectError(t *testing.T) {
	cfg := &config.PorchConfig{DatabaseURL: "mysql://localhost/porch", Port: 8000}

	database := New()
	err := database.InitApp(context.Background(), app.New(cfg, nil))
	assert.Error(t, err)
	assert.Nil(t, database.DB())

	// The failure is remembered.
	assert.Equal(t, err, database.InitApp(context.Background(), app.New(cfg, nil)))
}

func TestInitAppKeepsOpenedConnection(t *testing.T) {
	conn := dbtest.SQLite(t)
	database := Open(conn)

	require.NoError(t, database.InitApp(context.Background(), app.New(&config.PorchConfig{Port: 8000}, nil)))
	assert.Same(t, conn, database.DB())
}

func TestUnboundDatabase(t *testing.T) {
	database := New()

	_, err := database.WithContext(context.Background())
	assert.ErrorIs(t, err, ErrNotBound)
	assert.ErrorIs(t, database.Migrate(context.Background()), ErrNotBound)
	assert.NoError(t, database.Close())
}
