package endpoints

import (
	"net/http"

	"github.com/saltstack/porch/pkg/identity"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ID         int64    `json:"id"`
	Login      string   `json:"login"`
	Name       string   `json:"name"`
	Privileges []string `json:"privileges"`
	RemoteIP   string   `json:"remote_ip,omitempty"`
	RequestID  string   `json:"request_id,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	authenticated(s).HandleFunc("/whoami", handleWhoami(s.AccountsStore)).Methods("GET")
}

func handleWhoami(accounts store.AccountsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok || id.Account == nil {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		privileges, err := accounts.EffectivePrivileges(r.Context(), model.KeyID(id.Account.ID))
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if privileges == nil {
			privileges = []string{}
		}

		response := WhoamiResponse{
			ID:         id.Account.ID,
			Login:      id.Account.Login,
			Name:       id.Account.Name,
			Privileges: privileges,
			RequestID:  id.RequestID,
		}
		if id.RemoteIP != nil {
			response.RemoteIP = id.RemoteIP.String()
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
