package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/signals"
)

func testConfig(level string) *config.PorchConfig {
	return &config.PorchConfig{LogLevel: level, Port: 8000, AdminPrivilege: "admin"}
}

func TestConfigureSendsSignalsInOrderOnce(t *testing.T) {
	bus := signals.NewBus[*Application]()
	var got []signals.Name

	record := func(name signals.Name) signals.Receiver[*Application] {
		return func(_ context.Context, a *Application) error {
			got = append(got, name)
			return nil
		}
	}
	bus.Connect(signals.NameApplicationConfigured, record(signals.NameApplicationConfigured))
	bus.Connect(signals.NameConfigurationLoaded, record(signals.NameConfigurationLoaded))

	a := New(testConfig("info"), bus)
	require.NoError(t, a.Configure(context.Background()))
	require.NoError(t, a.Configure(context.Background()))

	assert.Equal(t, []signals.Name{signals.NameConfigurationLoaded, signals.NameApplicationConfigured}, got)
	assert.True(t, a.Configured())
}

func TestConfigureWithoutConfig(t *testing.T) {
	a := New(nil, nil)
	assert.ErrorIs(t, a.Configure(context.Background()), ErrNoConfig)
	assert.False(t, a.Configured())
}

func TestConfigureStopsOnLoadError(t *testing.T) {
	bus := signals.NewBus[*Application]()
	boom := errors.New("boom")
	configured := false

	bus.Connect(signals.NameConfigurationLoaded, func(context.Context, *Application) error { return boom })
	bus.Connect(signals.NameApplicationConfigured, func(context.Context, *Application) error {
		configured = true
		return nil
	})

	err := New(testConfig("info"), bus).Configure(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, configured)
}

func TestConfigureRetriesAfterFailure(t *testing.T) {
	bus := signals.NewBus[*Application]()
	boom := errors.New("boom")
	loads, configured := 0, 0

	bus.Connect(signals.NameConfigurationLoaded, func(context.Context, *Application) error {
		loads++
		if loads == 1 {
			return boom
		}
		return nil
	})
	bus.Connect(signals.NameApplicationConfigured, func(context.Context, *Application) error {
		configured++
		return nil
	})

	a := New(testConfig("info"), bus)
	assert.ErrorIs(t, a.Configure(context.Background()), boom)
	assert.False(t, a.Configured())

	require.NoError(t, a.Configure(context.Background()))
	assert.True(t, a.Configured())
	assert.Equal(t, 2, loads)
	assert.Equal(t, 1, configured)

	require.NoError(t, a.Configure(context.Background()))
	assert.Equal(t, 2, loads)
	assert.Equal(t, 1, configured)
}

func TestReloadConfig(t *testing.T) {
	bus := signals.NewBus[*Application]()
	var loaded, configured int
	bus.Connect(signals.NameConfigurationLoaded, func(context.Context, *Application) error {
		loaded++
		return nil
	})
	bus.Connect(signals.NameApplicationConfigured, func(context.Context, *Application) error {
		configured++
		return nil
	})

	a := New(testConfig("info"), bus)
	require.NoError(t, a.Configure(context.Background()))

	next := testConfig("debug")
	require.NoError(t, a.ReloadConfig(context.Background(), next))

	assert.Same(t, next, a.Config())
	assert.Equal(t, 2, loaded)
	assert.Equal(t, 1, configured)
	assert.ErrorIs(t, a.ReloadConfig(context.Background(), nil), ErrNoConfig)
}
