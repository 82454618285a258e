package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// Ensure BuildServersStore implements store.BuildServersStore
var _ store.BuildServersStore = (*BuildServersStore)(nil)

// BuildServersStore implements store.BuildServersStore using GORM
type BuildServersStore struct {
	db *gorm.DB
}

// NewBuildServersStore creates a new BuildServersStore
func NewBuildServersStore(db *gorm.DB) *BuildServersStore {
	return &BuildServersStore{db: db}
}

// FetchBuildServer returns the server with the given id or address
func (s *BuildServersStore) FetchBuildServer(ctx context.Context, key model.Key) (*model.BuildServer, error) {
	if !key.IsID() {
		return s.FromAddress(ctx, key.Name)
	}

	var server model.BuildServer
	found, err := first(s.db.WithContext(ctx).Where("id = ?", key.ID), &server)
	if err != nil || !found {
		return nil, err
	}
	return &server, nil
}

// FromAddress returns the server at an address
func (s *BuildServersStore) FromAddress(ctx context.Context, address string) (*model.BuildServer, error) {
	var server model.BuildServer
	found, err := first(s.db.WithContext(ctx).Where("address = ?", address), &server)
	if err != nil || !found {
		return nil, err
	}
	return &server, nil
}

// ListBuildServers returns all servers ordered by address
func (s *BuildServersStore) ListBuildServers(ctx context.Context) ([]model.BuildServer, error) {
	var servers []model.BuildServer
	err := s.db.WithContext(ctx).Order("address").Find(&servers).Error
	return servers, err
}

// CreateBuildServer inserts a new server
func (s *BuildServersStore) CreateBuildServer(ctx context.Context, server *model.BuildServer) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(server).Error
}

// DeleteBuildServer deletes a server and all of its builders
func (s *BuildServersStore) DeleteBuildServer(ctx context.Context, key model.Key) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.BuildServer{})
		if key.IsID() {
			q = q.Where("id = ?", key.ID)
		} else {
			q = q.Where("address = ?", key.Name)
		}

		var ids []int64
		if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("build server %s: %w", key, store.ErrNotFound)
		}

		if err := tx.Where("builder_id = ?", ids[0]).Delete(&model.Builder{}).Error; err != nil {
			return fmt.Errorf("failed to delete builders: %w", err)
		}
		return affected(tx.Where("id = ?", ids[0]).Delete(&model.BuildServer{}))
	})
}

// FetchBuilders returns the builders of a server ordered by name
func (s *BuildServersStore) FetchBuilders(ctx context.Context, serverID int64, includeRemoved bool) ([]model.Builder, error) {
	tx := s.db.WithContext(ctx).Where("builder_id = ?", serverID)
	if !includeRemoved {
		tx = tx.Where("removed = ?", false)
	}

	var builders []model.Builder
	err := tx.Order("name").Find(&builders).Error
	return builders, err
}
