package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/saltstack/porch/pkg/app"
	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/db"
	gormstore "github.com/saltstack/porch/pkg/server/store/gorm"
)

// environment is a configured application with its database bound
type environment struct {
	app *app.Application
	db  *db.Database
}

// configure loads the configuration and sends it through the application
// bus, which binds the database.
func configure(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	application := app.New(cfg, nil)
	database := db.New()
	database.Register(application.Bus)

	if err := application.Configure(ctx); err != nil {
		return nil, err
	}

	return &environment{app: application, db: database}, nil
}

func (e *environment) close() {
	_ = e.db.Close()
}

func (e *environment) conn() *gorm.DB {
	return e.db.DB()
}

func (e *environment) accounts() *gormstore.AccountsStore {
	return gormstore.NewAccountsStore(e.conn())
}

func (e *environment) groups() *gormstore.GroupsStore {
	return gormstore.NewGroupsStore(e.conn())
}

func (e *environment) privileges() *gormstore.PrivilegesStore {
	return gormstore.NewPrivilegesStore(e.conn())
}

func (e *environment) buildServers() *gormstore.BuildServersStore {
	return gormstore.NewBuildServersStore(e.conn())
}

func (e *environment) builders() *gormstore.BuildersStore {
	return gormstore.NewBuildersStore(e.conn())
}

// withEnvironment configures an environment, runs fn and closes it
func withEnvironment(fn func(ctx context.Context, env *environment) error) error {
	ctx := context.Background()

	env, err := configure(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	return fn(ctx, env)
}
