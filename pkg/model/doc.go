// Package model defines the database models for Porch.
//
// This package contains GORM models that map to the Porch database schema.
//
// # Core Models
//
//   - Account: a user imported from GitHub, keyed by its GitHub id
//   - Group: a named collection of accounts sharing privileges
//   - Privilege: a named permission
//   - BuildServer: a remote Jenkins master
//   - Builder: a job configured on a build server
//
// # Database Schema
//
//   - accounts, groups, privileges, build_servers, builders
//   - group_accounts: accounts in a group
//   - group_privileges: privileges granted to a group
//   - account_privileges: privileges granted directly to an account
//
// Builder names are the primary key of the builders table, so a builder
// name is unique across every build server, not per server.
package model
