// Package config provides configuration management for Porch.
//
// Configuration is loaded, in increasing order of precedence, from:
//
//   - built-in defaults
//   - the configuration file (porch.yml in PORCH_CONFIG_PATH, default /etc/porch/config)
//   - a .env file in the working directory
//   - environment variables
//
// Every attribute remembers which source its value came from.
//
// # Key Configuration Options
//
//   - DATABASE_URL / PORCH_DATABASE_URL: postgres:// or sqlite:// database URL
//   - PORCH_PORT / PORT: server listen port
//   - PORCH_LOG_LEVEL: logging verbosity
//   - PORCH_ADMIN_PRIVILEGE: privilege required by administrative endpoints
package config
