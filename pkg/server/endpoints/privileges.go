package endpoints

import (
	"net/http"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// RegisterPrivilegesEndpoints registers the privilege endpoints
func RegisterPrivilegesEndpoints(s *server.Server) {
	// GET /privileges - List all privileges
	authenticated(s).HandleFunc("/privileges", handleListPrivileges(s.PrivilegesStore)).Methods("GET")
}

func handleListPrivileges(privileges store.PrivilegesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := privileges.ListPrivileges(r.Context())
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if list == nil {
			list = []model.Privilege{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}
