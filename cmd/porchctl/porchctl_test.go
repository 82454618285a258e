package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/db"
	"github.com/saltstack/porch/pkg/model"
)

// sqliteEnv points configuration at an empty config directory and a SQLite
// file in a temporary directory.
func sqliteEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("PORCH_CONFIG_PATH", dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORCH_DATABASE_URL", "sqlite://"+filepath.Join(dir, "porch.db"))
	return dir
}

func TestWithMigrationsTable(t *testing.T) {
	assert.Equal(t,
		"postgres://localhost/porch?x-migrations-table=porch_schema_migrations",
		withMigrationsTable("postgres://localhost/porch"))
	assert.Equal(t,
		"postgres://localhost/porch?sslmode=disable&x-migrations-table=porch_schema_migrations",
		withMigrationsTable("postgres://localhost/porch?sslmode=disable"))
}

func TestUpMigrations(t *testing.T) {
	t.Setenv("PORCH_MIGRATIONS_PATH", filepath.Join("..", "..", "db", "migrations"))

	files, err := upMigrations()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20131001000000_create_accounts.up.sql",
		"20131001000001_create_groups.up.sql",
		"20131001000002_create_build_servers.up.sql",
	}, files)
}

func TestPendingMigrations(t *testing.T) {
	files := []string{
		"20131001000000_create_accounts.up.sql",
		"20131001000001_create_groups.up.sql",
		"20131001000002_create_build_servers.up.sql",
	}

	assert.Equal(t, files, pendingMigrations(files, 0))
	assert.Equal(t, files[2:], pendingMigrations(files, 20131001000001))
	assert.Empty(t, pendingMigrations(files, 20131001000002))
}

func TestGetDatabaseURLRequired(t *testing.T) {
	t.Setenv("PORCH_CONFIG_PATH", t.TempDir())
	t.Setenv("PORCH_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	_, err := getDatabaseURL()
	assert.EqualError(t, err, "DATABASE_URL environment variable is required")
}

func TestConfigureBindsDatabase(t *testing.T) {
	sqliteEnv(t)

	env, err := configure(context.Background())
	require.NoError(t, err)
	defer env.close()

	assert.True(t, env.app.Configured())
	require.NotNil(t, env.conn())
	assert.Same(t, env.app, env.db.App())
}

func TestConfigureRejectsInvalidConfiguration(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("PORCH_PORT", "70000")

	_, err := configure(context.Background())
	assert.Error(t, err)
}

func TestSeedAndUpdateOnSQLite(t *testing.T) {
	dir := sqliteEnv(t)
	t.Setenv("JENKINS_TOKEN", "from-env")

	require.NoError(t, runMigrations())

	seedFile := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(seedFile, []byte(`
privileges: [admin, build]
groups:
  - name: release
    privileges: [build]
build_servers:
  - address: https://jenkins.example.com
    username: porch
    access_token: ${JENKINS_TOKEN}
`), 0o600))

	require.NoError(t, loadSeed(seedFile, true))
	require.NoError(t, loadSeed(seedFile, false))
	// Loading twice is harmless
	require.NoError(t, loadSeed(seedFile, false))

	require.NoError(t, updateBuildServer(model.KeyName("https://jenkins.example.com"), db.Values{"username": "porch-bot"}))
	assert.Error(t, updateBuildServer(model.KeyName("https://missing.example.com"), db.Values{"username": "x"}))
	assert.Error(t, updateBuildServer(model.KeyID(1), db.Values{}))

	require.NoError(t, withEnvironment(func(ctx context.Context, env *environment) error {
		server, err := env.buildServers().FromAddress(ctx, "https://jenkins.example.com")
		require.NoError(t, err)
		require.NotNil(t, server)
		assert.Equal(t, "porch-bot", server.Username)
		assert.Equal(t, "from-env", server.AccessToken)

		groups, err := env.groups().ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)

		privileges, err := env.privileges().ListPrivileges(ctx)
		require.NoError(t, err)
		assert.Len(t, privileges, 2)
		return nil
	}))

	require.NoError(t, showGroup(model.KeyName("release"), 0, 0))
	assert.Error(t, showGroup(model.KeyName("ghost"), 0, 0))
}
