package realtime

import (
	"context"
	"sync"
)

// Bus fans change events out to subscribers. Implementations must be safe
// for concurrent use.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers onEvent and starts delivery. Delivery stops when
	// ctx is cancelled.
	Subscribe(ctx context.Context, onEvent func(Event)) error
	Close() error
}

// memoryBus is the single-instance fallback used when redis is not
// configured: events published in this process reach this process's
// subscribers and nobody else.
type memoryBus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewMemoryBus creates an in-process bus.
func NewMemoryBus() Bus {
	return &memoryBus{}
}

func (b *memoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
	return nil
}

func (b *memoryBus) Subscribe(_ context.Context, onEvent func(Event)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, onEvent)
	return nil
}

func (b *memoryBus) Close() error { return nil }
