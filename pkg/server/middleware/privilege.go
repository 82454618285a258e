package middleware

import (
	"net/http"

	"github.com/saltstack/porch/pkg/identity"
	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/model"
	"github.com/saltstack/porch/pkg/server/store"
)

// RequirePrivilege only lets through callers holding ref, directly or
// through a group. It must run after TokenAuthenticator.
func RequirePrivilege(accounts store.AccountsStore, ref model.PrivilegeRef) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok || id.Account == nil {
				http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
				return
			}

			allowed, err := accounts.HasPrivilege(r.Context(), model.KeyID(id.Account.ID), ref)
			if err != nil {
				log.WithAccount(id.Account.ID).WithError(err).Error("privilege check failed")
				http.Error(w, "Unable to check privileges", http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, "Missing privilege "+ref.Name(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
