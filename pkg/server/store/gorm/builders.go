package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Ensure BuildersStore implements store.BuildersStore
var _ store.BuildersStore = (*BuildersStore)(nil)

// BuildersStore implements store.BuildersStore using GORM
type BuildersStore struct {
	db *gorm.DB
}

// NewBuildersStore creates a new BuildersStore
func NewBuildersStore(db *gorm.DB) *BuildersStore {
	return &BuildersStore{db: db}
}

// FetchBuilder returns the builder with the given name
func (s *BuildersStore) FetchBuilder(ctx context.Context, name string) (*model.Builder, error) {
	var builder model.Builder
	found, err := first(s.db.WithContext(ctx).Where("name = ?", name), &builder)
	if err != nil || !found {
		return nil, err
	}
	return &builder, nil
}

// SaveBuilder inserts or updates a builder
func (s *BuildersStore) SaveBuilder(ctx context.Context, builder *model.Builder) error {
	return s.db.WithContext(ctx).Save(builder).Error
}

// MarkRemoved flags the active builders of a server missing from keep
func (s *BuildersStore) MarkRemoved(ctx context.Context, serverID int64, keep []string) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&model.Builder{}).
		Where("builder_id = ? AND removed = ?", serverID, false)
	if len(keep) > 0 {
		tx = tx.Where("name NOT IN ?", keep)
	}

	res := tx.Update("removed", true)
	return res.RowsAffected, res.Error
}
