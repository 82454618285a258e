package middleware

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/identity"
	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/server/store"
)

var tokenRegex = regexp.MustCompile(`^(?i:token|bearer)\s+(\S+)$`)

// TokenAuthenticator is middleware that resolves a GitHub access token to
// an imported account
type TokenAuthenticator struct {
	Accounts store.AccountsStore
	Config   *config.PorchConfig
}

// NewTokenAuthenticator creates a new token authenticator middleware
func NewTokenAuthenticator(accounts store.AccountsStore, cfg *config.PorchConfig) *TokenAuthenticator {
	return &TokenAuthenticator{Accounts: accounts, Config: cfg}
}

// Middleware returns an HTTP middleware that requires a known token and
// stores the caller's identity in the request context
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		account, err := a.Accounts.FetchAccountByToken(r.Context(), tokenMatches[1])
		if err != nil {
			log.Log.WithError(err).Error("token lookup failed")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Unable to verify token"))
			return
		}
		if account == nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid token"))
			return
		}

		id := identity.FromAccount(account).
			WithRemoteIP(RemoteIP(r, a.Config)).
			WithRequestID(RequestIDFrom(r.Context()))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// RemoteIP returns the client address of a request. X-Forwarded-For is
// only honoured when the direct peer is a trusted proxy.
func RemoteIP(r *http.Request, cfg *config.PorchConfig) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if cfg != nil && cfg.IsTrustedProxy(host) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			client := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if ip := net.ParseIP(client); ip != nil {
				return ip
			}
		}
	}

	return net.ParseIP(host)
}
