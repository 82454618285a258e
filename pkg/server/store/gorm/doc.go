// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// This package contains concrete implementations that use GORM for database
// operations. The interfaces they implement are defined in pkg/server/store.
// Queries are written so they run unchanged on PostgreSQL and SQLite.
package gorm
