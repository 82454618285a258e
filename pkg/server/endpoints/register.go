package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/middleware"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	srv.Router.Use(middleware.RequestID)

	// The status page is public and must be registered before the
	// authenticated subrouters, which match every path.
	RegisterStatusEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterAccountsEndpoints(srv)
	RegisterGroupsEndpoints(srv)
	RegisterPrivilegesEndpoints(srv)
	RegisterBuildServersEndpoints(srv)
}

// authenticated returns a subrouter requiring a known GitHub token
func authenticated(s *server.Server) *mux.Router {
	r := s.Router.NewRoute().Subrouter()
	r.Use(middleware.NewTokenAuthenticator(s.AccountsStore, s.Config).Middleware)
	return r
}

// adminOnly wraps a handler with the configured admin privilege check
func adminOnly(s *server.Server, h http.HandlerFunc) http.Handler {
	ref := model.RawPrivilege(s.Config.AdminPrivilege)
	return middleware.RequirePrivilege(s.AccountsStore, ref)(h)
}
