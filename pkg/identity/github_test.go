package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubClient_AuthenticatedUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/user" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"login":"jdoe","name":"Jane Doe","email":"jane@example.com","avatar_url":"https://avatars.example.com/42"}`))
	}))
	defer srv.Close()

	client := NewGitHubClient(srv.URL + "/").WithHTTPClient(srv.Client())

	user, err := client.AuthenticatedUser(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, &User{
		ID:        42,
		Login:     "jdoe",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		AvatarURL: "https://avatars.example.com/42",
	}, user)

	_, err = client.AuthenticatedUser(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
