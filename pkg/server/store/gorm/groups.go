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

// Ensure GroupsStore implements store.GroupsStore
var _ store.GroupsStore = (*GroupsStore)(nil)

// GroupsStore implements store.GroupsStore using GORM
type GroupsStore struct {
	db *gorm.DB
}

// NewGroupsStore creates a new GroupsStore
func NewGroupsStore(db *gorm.DB) *GroupsStore {
	return &GroupsStore{db: db}
}

// FetchGroup returns the group with the given id or name
func (s *GroupsStore) FetchGroup(ctx context.Context, key model.Key) (*model.Group, error) {
	tx := s.db.WithContext(ctx).Preload("Privileges", func(db *gorm.DB) *gorm.DB {
		return db.Order("name")
	})
	if key.IsID() {
		tx = tx.Where("id = ?", key.ID)
	} else {
		tx = tx.Where("name = ?", key.Name)
	}

	var group model.Group
	found, err := first(tx, &group)
	if err != nil || !found {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns all groups ordered by name
func (s *GroupsStore) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := s.db.WithContext(ctx).Order("name").Order("id").Find(&groups).Error
	return groups, err
}

// CreateGroup inserts a new group
func (s *GroupsStore) CreateGroup(ctx context.Context, group *model.Group) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(group).Error
}

// DeleteGroup deletes a group and its membership and privilege rows
func (s *GroupsStore) DeleteGroup(ctx context.Context, key model.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := groupID(tx, key)
		if err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupPrivilege{}).Error; err != nil {
			return fmt.Errorf("failed to delete group privileges: %w", err)
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupAccount{}).Error; err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		return affected(tx.Where("id = ?", id).Delete(&model.Group{}))
	})
}

// AddMember adds an account to a group
func (s *GroupsStore) AddMember(ctx context.Context, group, account model.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gid, err := groupID(tx, group)
		if err != nil {
			return err
		}
		aid, err := accountID(tx, account)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.GroupAccount{GroupID: gid, AccountGithubID: aid}).Error
	})
}

// RemoveMember removes an account from a group
func (s *GroupsStore) RemoveMember(ctx context.Context, group, account model.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gid, err := groupID(tx, group)
		if err != nil {
			return err
		}
		aid, err := accountID(tx, account)
		if err != nil {
			return err
		}
		return affected(tx.Where("group_id = ? AND account_github_id = ?", gid, aid).Delete(&model.GroupAccount{}))
	})
}

// FetchGroupMembers pages over the accounts of a group, ordered by login
func (s *GroupsStore) FetchGroupMembers(ctx context.Context, key model.Key, limit, offset int) ([]model.Account, error) {
	tx := s.db.WithContext(ctx)
	id, err := groupID(tx, key)
	if err != nil {
		return nil, err
	}

	query := tx.
		Joins("JOIN group_accounts ON group_accounts.account_github_id = accounts.github_id").
		Where("group_accounts.group_id = ?", id).
		Order("accounts.github_login")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var accounts []model.Account
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// CountGroupMembers counts the accounts of a group
func (s *GroupsStore) CountGroupMembers(ctx context.Context, key model.Key) (int64, error) {
	tx := s.db.WithContext(ctx)
	id, err := groupID(tx, key)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.Model(&model.GroupAccount{}).Where("group_id = ?", id).Count(&count).Error
	return count, err
}

// GrantPrivilege grants an existing privilege to a group
func (s *GroupsStore) GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := groupID(tx, key)
		if err != nil {
			return err
		}
		pid, err := privilegeID(tx, ref)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.GroupPrivilege{GroupID: id, PrivilegeID: pid}).Error
	})
}

// RevokePrivilege removes a grant
func (s *GroupsStore) RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := groupID(tx, key)
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
		return tx.Where("group_id = ? AND privilege_id = ?", id, pid).Delete(&model.GroupPrivilege{}).Error
	})
}

// groupID resolves a key to the id of an existing group. Group names are
// not unique; the oldest group of a name wins.
func groupID(tx *gorm.DB, key model.Key) (int64, error) {
	q := tx.Model(&model.Group{})
	if key.IsID() {
		q = q.Where("id = ?", key.ID)
	} else {
		q = q.Where("name = ?", key.Name)
	}

	var ids []int64
	if err := q.Order("id").Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("group %s: %w", key, store.ErrNotFound)
	}
	return ids[0], nil
}
