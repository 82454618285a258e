package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/db/dbtest"
)

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock := dbtest.Mock(t)
	s := NewHealthStore(db)

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.CheckConnectivity(context.Background()))

	mock.ExpectExec("SELECT 1").WillReturnError(errors.New("connection refused"))
	assert.Error(t, s.CheckConnectivity(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_FetchAccountByTokenQuery(t *testing.T) {
	db, mock := dbtest.Mock(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE github_access_token = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"github_id", "github_login"}).AddRow(7, "jdoe"))

	account, err := s.FetchAccountByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, int64(7), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
