package identity

import (
	"context"
	"net"

	"github.com/saltstack/porch/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	// Account is the authenticated account
	Account *model.Account

	// Request context
	RemoteIP  net.IP
	RequestID string
}

// FromAccount creates an Identity for an account.
func FromAccount(account *model.Account) *Identity {
	return &Identity{Account: account}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// WithRequestID sets the request id.
func (i *Identity) WithRequestID(id string) *Identity {
	i.RequestID = id
	return i
}

// Login returns the GitHub login of the account, or "" for an empty identity.
func (i *Identity) Login() string {
	if i == nil || i.Account == nil {
		return ""
	}
	return i.Account.Login
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
