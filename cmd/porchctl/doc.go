// Command porchctl runs the Porch server and administers its database.
//
// Porch keeps the GitHub accounts allowed to drive Salt's Jenkins masters,
// the groups and privileges they hold, and the builders discovered on each
// master.
//
// # Quick Start
//
//	# Create or upgrade the schema
//	porchctl db migrate
//
//	# Load privileges, groups and build servers
//	porchctl seed load seed.yml
//
//	# Import yourself and grant the admin privilege
//	porchctl account import $GITHUB_TOKEN
//	porchctl account grant octocat admin
//
//	# Start the server
//	porchctl server
//
// # Environment Variables
//
//   - PORCH_DATABASE_URL or DATABASE_URL: postgres:// or sqlite:// URL
//   - PORCH_CONFIG_PATH: directory holding porch.yml
//   - PORCH_PORT or PORT: server port (default: 8000)
//   - PORCH_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORCH_ADMIN_PRIVILEGE: privilege required by admin routes (default: admin)
//   - PORCH_GITHUB_API_URL: GitHub Enterprise base URL
package main
