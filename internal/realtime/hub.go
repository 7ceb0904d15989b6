package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Client is one connected SSE consumer, scoped to a single agency.
type Client struct {
	ID       uuid.UUID
	AgencyID uuid.UUID
	Outbound chan Event
	done     chan struct{}
}

// Done is closed when the client is removed from the hub.
func (c *Client) Done() <-chan struct{} { return c.done }

// Hub fans bus events out to connected SSE clients, keyed by agency.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]bool // agency → clients
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]bool)}
}

// AddClient registers a new client for an agency's events.
func (h *Hub) AddClient(agencyID uuid.UUID) *Client {
	c := &Client{
		ID:       uuid.New(),
		AgencyID: agencyID,
		Outbound: make(chan Event, 16),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[agencyID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[agencyID] = set
	}
	set[c] = true

	slog.Debug("sse client connected", "client", c.ID, "agency", agencyID)
	return c
}

// RemoveClient unregisters a client and closes its channels.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.AgencyID]; ok {
		if set[c] {
			delete(set, c)
			close(c.done)
			if len(set) == 0 {
				delete(h.clients, c.AgencyID)
			}
		}
	}
	h.mu.Unlock()

	slog.Debug("sse client disconnected", "client", c.ID)
}

// Broadcast delivers an event to every client of its agency. Clients with a
// full outbound buffer are skipped; they recover on their next reload.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ev.AgencyID] {
		select {
		case c.Outbound <- ev:
		default:
			slog.Warn("dropping change event; client buffer full", "client", c.ID)
		}
	}
}

// ClientCount returns the number of connected clients for an agency.
func (h *Hub) ClientCount(agencyID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[agencyID])
}
