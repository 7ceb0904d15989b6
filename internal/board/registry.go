package board

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"contentflow/internal/realtime"
)

// Registry holds one live board per agency. Boards are created on first use,
// primed with a full refresh and kept hot by bus events for the rest of the
// process lifetime.
type Registry struct {
	runCtx  context.Context
	factory func(agencyID uuid.UUID) *Board

	mu     sync.Mutex
	boards map[uuid.UUID]*Board
}

// NewRegistry creates a registry. runCtx bounds the reload loop of every
// board the registry spawns.
func NewRegistry(runCtx context.Context, factory func(agencyID uuid.UUID) *Board) *Registry {
	return &Registry{
		runCtx:  runCtx,
		factory: factory,
		boards:  make(map[uuid.UUID]*Board),
	}
}

// Get returns the agency's board, creating and priming it on first call.
// Creation holds the registry lock through the priming refresh; it happens
// once per agency per process, so the serialization is harmless.
func (r *Registry) Get(ctx context.Context, agencyID uuid.UUID) (*Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.boards[agencyID]; ok {
		return b, nil
	}

	b := r.factory(agencyID)
	if err := b.Refresh(ctx); err != nil {
		return nil, err
	}
	r.boards[agencyID] = b
	go b.Run(r.runCtx)
	return b, nil
}

// Dispatch routes a bus event to the agency's board, if one is live. Agencies
// with no open board have nothing to reconcile.
func (r *Registry) Dispatch(ev realtime.Event) {
	r.mu.Lock()
	b := r.boards[ev.AgencyID]
	r.mu.Unlock()
	if b != nil {
		b.HandleEvent(ev)
	}
}
