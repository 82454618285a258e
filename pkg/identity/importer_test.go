package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/db/dbtest"
	"github.com/saltstack/porch/pkg/model"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

type MockUserFetcher struct {
	mock.Mock
}

func (m *MockUserFetcher) AuthenticatedUser(ctx context.Context, token string) (*User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestImportCreatesAccount(t *testing.T) {
	accounts := gormstore.NewAccountsStore(dbtest.SQLite(t))
	users := new(MockUserFetcher)
	users.On("AuthenticatedUser", mock.Anything, "tok").
		Return(&User{ID: 42, Login: "jdoe", Name: "Jane", Email: "jane@example.com"}, nil)

	account, err := NewImporter(users, accounts).Import(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.ID)
	assert.Equal(t, "tok", account.Token)

	stored, err := accounts.FetchAccountByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "jdoe", stored.Login)
	assert.Equal(t, model.DefaultTimezone, stored.Timezone)
	users.AssertExpectations(t)
}

func TestImportRefreshesExistingAccount(t *testing.T) {
	ctx := context.Background()
	accounts := gormstore.NewAccountsStore(dbtest.SQLite(t))

	registered := time.Date(2013, 10, 1, 12, 0, 0, 0, time.UTC)
	existing := model.NewAccount(42, "old-login", "Old", "", "old-token", "")
	existing.RegisterDate = registered
	existing.Locale = "pt"
	require.NoError(t, accounts.CreateAccount(ctx, existing))

	users := new(MockUserFetcher)
	users.On("AuthenticatedUser", mock.Anything, "new-token").
		Return(&User{ID: 42, Login: "jdoe", Name: "Jane"}, nil)

	_, err := NewImporter(users, accounts).Import(ctx, "new-token")
	require.NoError(t, err)

	stored, err := accounts.FetchAccount(ctx, model.KeyID(42))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "jdoe", stored.Login)
	assert.Equal(t, "new-token", stored.Token)
	assert.Equal(t, "pt", stored.Locale)
	assert.True(t, stored.RegisterDate.Equal(registered))

	old, err := accounts.FetchAccountByToken(ctx, "old-token")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestImportPropagatesFetchError(t *testing.T) {
	users := new(MockUserFetcher)
	users.On("AuthenticatedUser", mock.Anything, "bad").Return(nil, ErrBadCredentials)

	_, err := NewImporter(users, gormstore.NewAccountsStore(dbtest.SQLite(t))).Import(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrBadCredentials))
}
