package store

import (
	"context"

	"github.com/saltstack/porch/pkg/model"
)

// PrivilegesStore abstracts privilege storage operations
type PrivilegesStore interface {
	// FetchPrivilege returns the privilege a reference names, or nil
	FetchPrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error)

	// ListPrivileges returns all privileges ordered by name
	ListPrivileges(ctx context.Context) ([]model.Privilege, error)

	// CreatePrivilege inserts a new privilege
	CreatePrivilege(ctx context.Context, privilege *model.Privilege) error

	// EnsurePrivilege returns the named privilege, creating it if needed
	EnsurePrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error)

	// DeletePrivilege deletes a privilege and every grant of it
	DeletePrivilege(ctx context.Context, ref model.PrivilegeRef) error
}
