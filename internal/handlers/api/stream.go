package api

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"contentflow/internal/realtime"
)

// StreamHandler pushes change events to browsers over SSE. Clients re-fetch
// the named slice on every event; the stream itself never carries data.
type StreamHandler struct {
	hub *realtime.Hub
}

// NewStreamHandler creates a new SSE handler.
func NewStreamHandler(hub *realtime.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream is the GET /api/v1/stream endpoint. The connection stays open until
// the client disconnects or the server shuts down.
func (h *StreamHandler) Stream(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	client := h.hub.AddClient(user.AgencyID)

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.hub.RemoveClient(client)

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev := <-client.Outbound:
				payload, err := json.Marshal(ev)
				if err != nil {
					slog.Error("failed to encode stream event", "error", err)
					continue
				}
				if _, err := w.WriteString("event: change\ndata: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-client.Done():
				return
			}
		}
	})
}
