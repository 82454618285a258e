package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"sqlite://", "file::memory:?cache=shared&_foreign_keys=on"},
		{"sqlite://:memory:", "file::memory:?cache=shared&_foreign_keys=on"},
		{"sqlite://porch.db", "porch.db?_foreign_keys=on"},
		{"sqlite:///var/lib/porch/porch.db?_busy_timeout=5000", "/var/lib/porch/porch.db?_busy_timeout=5000&_foreign_keys=on"},
		{"sqlite://porch.db?_fk=1", "porch.db?_fk=1"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.url))
		})
	}
}

func TestDialector(t *testing.T) {
	d, err := Dialector("postgres://porch@localhost/porch")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector("sqlite://:memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector("mysql://localhost/porch")
	assert.Error(t, err)
}

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORCH_DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.Error(t, err)
}

func TestURLPrefersPorchVariable(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://a")
	t.Setenv("PORCH_DATABASE_URL", "")
	assert.Equal(t, "postgres://a", URL())

	t.Setenv("PORCH_DATABASE_URL", "postgres://b")
	assert.Equal(t, "postgres://b", URL())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLevel(""))
	assert.Equal(t, logger.Silent, gormLevel("chatty"))
	assert.Equal(t, logger.Error, gormLevel("error"))
	assert.Equal(t, logger.Warn, gormLevel("info"))
	assert.Equal(t, logger.Info, gormLevel("debug"))
}
