package store

import (
	"context"

	"github.com/saltstack/porch/pkg/model"
)

// GroupsStore abstracts group storage operations
type GroupsStore interface {
	// FetchGroup returns the group with the given id or name, with its
	// privileges loaded, or nil
	FetchGroup(ctx context.Context, key model.Key) (*model.Group, error)

	// ListGroups returns all groups ordered by name
	ListGroups(ctx context.Context) ([]model.Group, error)

	// CreateGroup inserts a new group
	CreateGroup(ctx context.Context, group *model.Group) error

	// DeleteGroup deletes a group and its membership and privilege rows.
	// Accounts and privileges are left alone.
	DeleteGroup(ctx context.Context, key model.Key) error

	// AddMember adds an account to a group
	AddMember(ctx context.Context, group, account model.Key) error

	// RemoveMember removes an account from a group
	RemoveMember(ctx context.Context, group, account model.Key) error

	// FetchGroupMembers pages over the accounts of a group, ordered by login.
	// A limit of zero returns every member.
	FetchGroupMembers(ctx context.Context, key model.Key, limit, offset int) ([]model.Account, error)

	// CountGroupMembers counts the accounts of a group
	CountGroupMembers(ctx context.Context, key model.Key) (int64, error)

	// GrantPrivilege grants an existing privilege to a group
	GrantPrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error

	// RevokePrivilege removes a grant; revoking a missing grant is a no-op
	RevokePrivilege(ctx context.Context, key model.Key, ref model.PrivilegeRef) error
}
