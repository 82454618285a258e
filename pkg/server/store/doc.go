// Package store provides storage abstractions for the Porch server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints, the seed loader and the build server syncer to be
// decoupled from the specific database implementation.
//
// # Available Stores
//
//   - AccountsStore: GitHub accounts and their directly granted privileges
//   - GroupsStore: groups, their members and privileges
//   - PrivilegesStore: privilege names
//   - BuildServersStore: Jenkins masters
//   - BuildersStore: jobs discovered on build servers
//   - HealthStore: database connectivity
//
// # Lookups
//
// Fetch methods return (nil, nil) when no record matches. Methods that act on
// an existing record return ErrNotFound when it does not exist.
//
//	accounts := gorm.NewAccountsStore(db)
//	account, err := accounts.FetchAccount(ctx, model.ParseKey("jdoe"))
//	if err == nil && account == nil {
//	    // No such account
//	}
package store
