// Package server provides the HTTP server for the Porch API.
//
// The server exposes a small read API over accounts, groups, privileges
// and build servers, plus a few administrative operations. It uses
// gorilla/mux for routing and wraps the router in an access log.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, db)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: the loaded Porch configuration
//   - Router: HTTP request router
//   - DB: database connection, nil when built from stores
//   - the stores the endpoints read and write through
//   - Syncer: refreshes builders from a Jenkins master
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage. Every route
// except the status page requires an "Authorization: token <github token>"
// header naming an imported account. Routes that modify data also require
// the configured admin privilege.
package server
