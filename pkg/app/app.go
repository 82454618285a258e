package app

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/saltstack/porch/pkg/config"
	"github.com/saltstack/porch/pkg/log"
	"github.com/saltstack/porch/pkg/signals"
)

// Bus is the signal bus of an application. Receivers are handed the
// application that sent the signal.
type Bus = signals.Bus[*Application]

// ErrNoConfig is returned by Configure when the application has no configuration
var ErrNoConfig = errors.New("application has no configuration")

// Application ties configuration, signals and logging together
type Application struct {
	Bus *Bus
	Log *logrus.Entry

	// configuring serializes calls to Configure
	configuring sync.Mutex

	mu         sync.RWMutex
	cfg        *config.PorchConfig
	configured bool
}

// New creates an application. A nil bus is replaced by an empty one.
func New(cfg *config.PorchConfig, bus *Bus) *Application {
	if bus == nil {
		bus = signals.NewBus[*Application]()
	}
	return &Application{
		Bus: bus,
		Log: log.Log,
		cfg: cfg,
	}
}

// Config returns the current configuration
func (a *Application) Config() *config.PorchConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Configured reports whether Configure has completed
func (a *Application) Configured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.configured
}

// Configure announces the loaded configuration and then the configured
// application. Once a call has sent both signals without error, later calls
// return nil. A failed call can be retried.
func (a *Application) Configure(ctx context.Context) error {
	a.configuring.Lock()
	defer a.configuring.Unlock()

	if a.Configured() {
		return nil
	}
	cfg := a.Config()
	if cfg == nil {
		return ErrNoConfig
	}

	log.SetLevel(cfg.LogLevel)

	if err := a.Bus.Send(ctx, signals.NameConfigurationLoaded, a); err != nil {
		return err
	}
	a.Log.Debug("configuration loaded")

	if err := a.Bus.Send(ctx, signals.NameApplicationConfigured, a); err != nil {
		return err
	}

	a.mu.Lock()
	a.configured = true
	a.mu.Unlock()

	a.Log.Info("application configured")
	return nil
}

// ReloadConfig swaps the configuration and announces it again.
// application-configured is not sent a second time.
func (a *Application) ReloadConfig(ctx context.Context, cfg *config.PorchConfig) error {
	if cfg == nil {
		return ErrNoConfig
	}

	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	log.SetLevel(cfg.LogLevel)
	return a.Bus.Send(ctx, signals.NameConfigurationLoaded, a)
}
