package signals

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Receiver is called with the sender of a signal
type Receiver[T any] func(ctx context.Context, sender T) error

// Bus holds the receivers connected to each signal
type Bus[T any] struct {
	mu        sync.RWMutex
	receivers map[Name][]Receiver[T]
}

// NewBus creates an empty bus
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{
		receivers: make(map[Name][]Receiver[T]),
	}
}

// Connect adds a receiver to a signal. Receivers run in the order they were
// connected.
func (b *Bus[T]) Connect(name Name, r Receiver[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receivers[name] = append(b.receivers[name], r)
}

// Receivers returns the number of receivers connected to a signal
func (b *Bus[T]) Receivers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.receivers[name])
}

// Send calls every receiver connected to name. A failing receiver does not
// stop the others; their errors are joined.
func (b *Bus[T]) Send(ctx context.Context, name Name, sender T) error {
	if !name.IsAName() {
		return fmt.Errorf("unknown signal %s", name)
	}

	b.mu.RLock()
	receivers := make([]Receiver[T], len(b.receivers[name]))
	copy(receivers, b.receivers[name])
	b.mu.RUnlock()

	var errs []error
	for _, r := range receivers {
		if err := r(ctx, sender); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
