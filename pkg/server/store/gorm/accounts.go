package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Ensure AccountsStore implements store.AccountsStore
var _ store.AccountsStore = (*AccountsStore)(nil)

// AccountsStore implements store.AccountsStore using GORM
type AccountsStore struct {
	db *gorm.DB
}

// NewAccountsStore creates a new AccountsStore
func NewAccountsStore(db *gorm.DB) *AccountsStore {
	return &AccountsStore{db: db}
}

// FetchAccount returns the account with the given GitHub id or login
func (s *AccountsStore) FetchAccount(ctx context.Context, key model.Key) (*model.Account, error) {
	tx := s.db.WithContext(ctx)
	if key.IsID() {
		tx = tx.Where("github_id = ?", key.ID)
	} else {
		tx = tx.Where("github_login = ?", key.Name)
	}

	var account model.Account
	found, err := first(tx.Preload("Privileges"), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// FetchAccountByToken returns the account holding a GitHub access token
func (s *AccountsStore) FetchAccountByToken(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, nil
	}

	var account model.Account
	found, err := first(s.db.WithContext(ctx).Where("github_access_token = ?", token), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns all accounts ordered by login
func (s *AccountsStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := s.db.WithContext(ctx).Order("github_login").Find(&accounts).Error
	return accounts, err
}

// CreateAccount inserts a new account
func (s *AccountsStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(account).Error
}

// SaveAccount inserts or updates every column of an account
func (s *AccountsStore) SaveAccount(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error
}

// TouchLastLogin stamps the account's last login with the current time
func (s *AccountsStore) TouchLastLogin(ctx context.Context, account *model.Account) error {
	account.UpdateLastLogin()
	return affected(s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("github_id = ?", account.ID).
		Update("last_login", account.LastLogin))
}

// DeleteAccount deletes an account together with its privilege grants and
// group memberships
func (s *AccountsStore) DeleteAccount(ctx context.Context, key model.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := accountID(tx, key)
		if err != nil {
			return err
		}
		if err := tx.Where("account_github_id = ?", id).Delete(&model.AccountPrivilege{}).Error; err != nil {
			return fmt.Errorf("failed to delete privilege grants: %w", err)
		}
		if err := tx.Where("account_github_id = ?", id).Delete(&model.GroupAccount{}).Error; err != nil {
			return fmt.Errorf("failed to delete group memberships: %w", err)
		}
		return affected(tx.Where("github_id = ?", id).Delete(&model.Account{}))
	})
}

// GrantPrivilege grants an existing privilege to an account
func (s *AccountsStore) GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := accountID(tx, key)
		if err != nil {
			return err
		}
		pid, err := privilegeID(tx, ref)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.AccountPrivilege{AccountGithubID: id, PrivilegeID: pid}).Error
	})
}

// RevokePrivilege removes a direct grant
func (s *AccountsStore) RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := accountID(tx, key)
		if err != nil {
			return err
		}
		pid, err := privilegeID(tx, ref)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Where("account_github_id = ? AND privilege_id = ?", id, pid).
			Delete(&model.AccountPrivilege{}).Error
	})
}

// EffectivePrivileges returns the sorted names of the privileges granted to
// an account directly or through its groups
func (s *AccountsStore) EffectivePrivileges(ctx context.Context, key model.Key) ([]string, error) {
	tx := s.db.WithContext(ctx)
	id, err := accountID(tx, key)
	if err != nil {
		return nil, err
	}

	var names []string
	err = tx.Raw(`
		SELECT p.name FROM privileges p
		JOIN account_privileges ap ON ap.privilege_id = p.id
		WHERE ap.account_github_id = ?
		UNION
		SELECT p.name FROM privileges p
		JOIN group_privileges gp ON gp.privilege_id = p.id
		JOIN group_accounts ga ON ga.group_id = gp.group_id
		WHERE ga.account_github_id = ?
		ORDER BY name
	`, id, id).Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// HasPrivilege checks an account's effective privileges
func (s *AccountsStore) HasPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) (bool, error) {
	names, err := s.EffectivePrivileges(ctx, key)
	if err != nil {
		return false, err
	}
	want := ref.Name()
	for _, name := range names {
		if name == want {
			return true, nil
		}
	}
	return false, nil
}

// accountID resolves a key to the GitHub id of an existing account
func accountID(tx *gorm.DB, key model.Key) (int64, error) {
	q := tx.Model(&model.Account{})
	if key.IsID() {
		q = q.Where("github_id = ?", key.ID)
	} else {
		q = q.Where("github_login = ?", key.Name)
	}

	var ids []int64
	if err := q.Limit(1).Pluck("github_id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("account %s: %w", key, store.ErrNotFound)
	}
	return ids[0], nil
}

// privilegeID resolves a reference to the id of an existing privilege
func privilegeID(tx *gorm.DB, ref model.PrivilegeRef) (int64, error) {
	var ids []int64
	err := tx.Model(&model.Privilege{}).Where("name = ?", ref.Name()).Limit(1).Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("privilege %q: %w", ref.Name(), store.ErrNotFound)
	}
	return ids[0], nil
}
