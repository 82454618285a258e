package endpoints

import (
	"net/http"

	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server"
	"github.com/saltstack/porch/pkg/server/store"
)

// AccountResponse is an account together with every privilege it holds
type AccountResponse struct {
	model.Account
	EffectivePrivileges []string `json:"effective_privileges"`
}

// RegisterAccountsEndpoints registers the account endpoints
func RegisterAccountsEndpoints(s *server.Server) {
	// GET /accounts/{key} - Fetch an account by GitHub id or login
	authenticated(s).HandleFunc("/accounts/{key}", handleShowAccount(s.AccountsStore)).Methods("GET")
}

func handleShowAccount(accounts store.AccountsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := keyVar(r)

		account, err := accounts.FetchAccount(r.Context(), key)
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if account == nil {
			respondWithError(w, http.StatusNotFound, "account not found: "+key.String())
			return
		}

		privileges, err := accounts.EffectivePrivileges(r.Context(), model.KeyID(account.ID))
		if err != nil {
			respondWithStoreError(w, r, err)
			return
		}
		if privileges == nil {
			privileges = []string{}
		}

		respondWithJSON(w, http.StatusOK, AccountResponse{Account: *account, EffectivePrivileges: privileges})
	}
}
