package store

import (
	"context"

	"github.com/saltstack/porch/pkg/model"
)

// BuildServersStore abstracts build server storage operations
type BuildServersStore interface {
	// FetchBuildServer returns the server with the given id or address, or nil
	FetchBuildServer(ctx context.Context, key model.Key) (*model.BuildServer, error)

	// FromAddress returns the server at an address, or nil
	FromAddress(ctx context.Context, address string) (*model.BuildServer, error)

	// ListBuildServers returns all servers ordered by address
	ListBuildServers(ctx context.Context) ([]model.BuildServer, error)

	// CreateBuildServer inserts a new server
	CreateBuildServer(ctx context.Context, server *model.BuildServer) error

	// DeleteBuildServer deletes a server and all of its builders
	DeleteBuildServer(ctx context.Context, key model.Key) error

	// FetchBuilders returns the builders of a server ordered by name,
	// optionally including those no longer present on the server
	FetchBuilders(ctx context.Context, serverID int64, includeRemoved bool) ([]model.Builder, error)
}

// BuildersStore abstracts builder storage operations
type BuildersStore interface {
	// FetchBuilder returns the builder with the given name, or nil
	FetchBuilder(ctx context.Context, name string) (*model.Builder, error)

	// SaveBuilder inserts or updates a builder
	SaveBuilder(ctx context.Context, builder *model.Builder) error

	// MarkRemoved flags every active builder of a server whose name is not
	// in keep as removed, returning how many were flagged
	MarkRemoved(ctx context.Context, serverID int64, keep []string) (int64, error)
}
