package identity

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saltstack/porch/pkg/model"
)

func TestContextRoundTrip(t *testing.T) {
	_, ok := Get(context.Background())
	assert.False(t, ok)

	id := FromAccount(&model.Account{ID: 1, Login: "jdoe"}).
		WithRemoteIP(net.ParseIP("10.0.0.1")).
		WithRequestID("req-1")
	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Same(t, id, got)
	assert.Equal(t, "jdoe", got.Login())
	assert.Equal(t, "req-1", got.RequestID)
}

func TestLoginOfEmptyIdentity(t *testing.T) {
	var id *Identity
	assert.Equal(t, "", id.Login())
	assert.Equal(t, "", (&Identity{}).Login())
}
