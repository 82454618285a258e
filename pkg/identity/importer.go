package identity

import (
	"context"
	"fmt"

	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Importer creates and refreshes accounts from GitHub access tokens
type Importer struct {
	users    UserFetcher
	accounts store.AccountsStore
}

// NewImporter creates an Importer
func NewImporter(users UserFetcher, accounts store.AccountsStore) *Importer {
	return &Importer{users: users, accounts: accounts}
}

// Import fetches the GitHub user owning token and stores it as an account.
// An existing account keeps its registration date, locale and timezone; its
// GitHub attributes and token are refreshed and its last login is stamped.
func (i *Importer) Import(ctx context.Context, token string) (*model.Account, error) {
	user, err := i.users.AuthenticatedUser(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := i.accounts.FetchAccount(ctx, model.KeyID(user.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %d: %w", user.ID, err)
	}

	if account == nil {
		account = model.NewAccount(user.ID, user.Login, user.Name, user.Email, token, user.AvatarURL)
		account.UpdateLastLogin()
		if err := i.accounts.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", user.Login, err)
		}
		log.WithAccount(account.ID).WithField("login", account.Login).Info("account registered")
		return account, nil
	}

	account.Login = user.Login
	account.Name = user.Name
	account.Email = user.Email
	account.AvatarURL = user.AvatarURL
	account.Token = token
	account.UpdateLastLogin()
	if err := i.accounts.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", user.Login, err)
	}
	log.WithAccount(account.ID).WithField("login", account.Login).Debug("account refreshed")
	return account, nil
}
