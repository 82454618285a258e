package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	assert.Equal(t, "configuration-loaded", NameConfigurationLoaded.String())
	assert.Equal(t, "application-configured", NameApplicationConfigured.String())

	n, err := NameString("application-configured")
	require.NoError(t, err)
	assert.Equal(t, NameApplicationConfigured, n)

	_, err = NameString("request-started")
	assert.Error(t, err)

	assert.Len(t, NameValues(), 2)
	assert.NotEmpty(t, NameConfigurationLoaded.Doc())
}

func TestBus_SendInOrder(t *testing.T) {
	bus := NewBus[string]()
	var calls []string

	bus.Connect(NameApplicationConfigured, func(ctx context.Context, sender string) error {
		calls = append(calls, "first:"+sender)
		return nil
	})
	bus.Connect(NameApplicationConfigured, func(ctx context.Context, sender string) error {
		calls = append(calls, "second:"+sender)
		return nil
	})
	bus.Connect(NameConfigurationLoaded, func(ctx context.Context, sender string) error {
		calls = append(calls, "loaded:"+sender)
		return nil
	})

	require.NoError(t, bus.Send(context.Background(), NameApplicationConfigured, "porch"))
	assert.Equal(t, []string{"first:porch", "second:porch"}, calls)
	assert.Equal(t, 2, bus.Receivers(NameApplicationConfigured))
	assert.Equal(t, 1, bus.Receivers(NameConfigurationLoaded))
}

func TestBus_SendJoinsErrors(t *testing.T) {
	bus := NewBus[int]()
	boom := errors.New("boom")
	called := false

	bus.Connect(NameConfigurationLoaded, func(ctx context.Context, sender int) error {
		return boom
	})
	bus.Connect(NameConfigurationLoaded, func(ctx context.Context, sender int) error {
		called = true
		return nil
	})

	err := bus.Send(context.Background(), NameConfigurationLoaded, 1)
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestBus_SendWithoutReceivers(t *testing.T) {
	bus := NewBus[int]()
	assert.NoError(t, bus.Send(context.Background(), NameApplicationConfigured, 1))
	assert.Error(t, bus.Send(context.Background(), Name(9), 1))
}
