package store

import (
	"context"

	"github.com/saltstack/porch/pkg/model"
)

// AccountsStore abstracts account storage operations
type AccountsStore interface {
	// FetchAccount returns the account with the given GitHub id or login, or nil
	FetchAccount(ctx context.Context, key model.Key) (*model.Account, error)

	// FetchAccountByToken returns the account holding a GitHub access token, or nil
	FetchAccountByToken(ctx context.Context, token string) (*model.Account, error)

	// ListAccounts returns all accounts ordered by login
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// CreateAccount inserts a new account
	CreateAccount(ctx context.Context, account *model.Account) error

	// SaveAccount inserts or updates every column of an account
	SaveAccount(ctx context.Context, account *model.Account) error

	// TouchLastLogin stamps the account's last login with the current time
	TouchLastLogin(ctx context.Context, account *model.Account) error

	// DeleteAccount deletes an account together with its privilege grants
	// and group memberships
	DeleteAccount(ctx context.Context, key model.Key) error

	// GrantPrivilege grants an existing privilege to an account
	GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error

	// RevokePrivilege removes a direct grant; revoking a missing grant is a no-op
	RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error

	// EffectivePrivileges returns the sorted names of the privileges granted
	// to an account directly or through its groups
	EffectivePrivileges(ctx context.Context, key model.Key) ([]string, error)

	// HasPrivilege checks an account's effective privileges
	HasPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) (bool, error)
}
