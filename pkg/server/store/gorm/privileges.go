package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Ensure PrivilegesStore implements store.PrivilegesStore
var _ store.PrivilegesStore = (*PrivilegesStore)(nil)

// PrivilegesStore implements store.PrivilegesStore using GORM
type PrivilegesStore struct {
	db *gorm.DB
}

// NewPrivilegesStore creates a new PrivilegesStore
func NewPrivilegesStore(db *gorm.DB) *PrivilegesStore {
	return &PrivilegesStore{db: db}
}

// FetchPrivilege returns the privilege a reference names. Raw names, named
// permissions and needs naming the same privilege all find the same row.
func (s *PrivilegesStore) FetchPrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error) {
	var privilege model.Privilege
	found, err := first(s.db.WithContext(ctx).Where("name = ?", ref.Name()), &privilege)
	if err != nil || !found {
		return nil, err
	}
	return &privilege, nil
}

// ListPrivileges returns all privileges ordered by name
func (s *PrivilegesStore) ListPrivileges(ctx context.Context) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := s.db.WithContext(ctx).Order("name").Find(&privileges).Error
	return privileges, err
}

// CreatePrivilege inserts a new privilege
func (s *PrivilegesStore) CreatePrivilege(ctx context.Context, privilege *model.Privilege) error {
	return s.db.WithContext(ctx).Create(privilege).Error
}

// EnsurePrivilege returns the named privilege, creating it if needed
func (s *PrivilegesStore) EnsurePrivilege(ctx context.Context, ref model.PrivilegeRef) (*model.Privilege, error) {
	privilege := model.NewPrivilege(ref)
	err := s.db.WithContext(ctx).Where("name = ?", privilege.Name).FirstOrCreate(privilege).Error
	if err != nil {
		return nil, err
	}
	return privilege, nil
}

// DeletePrivilege deletes a privilege and every grant of it
func (s *PrivilegesStore) DeletePrivilege(ctx context.Context, ref model.PrivilegeRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := privilegeID(tx, ref)
		if err != nil {
			return err
		}
		if err := tx.Where("privilege_id = ?", id).Delete(&model.AccountPrivilege{}).Error; err != nil {
			return fmt.Errorf("failed to delete account grants: %w", err)
		}
		if err := tx.Where("privilege_id = ?", id).Delete(&model.GroupPrivilege{}).Error; err != nil {
			return fmt.Errorf("failed to delete group grants: %w", err)
		}
		return affected(tx.Where("id = ?", id).Delete(&model.Privilege{}))
	})
}
