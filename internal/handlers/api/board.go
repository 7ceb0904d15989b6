package api

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/board"
	"contentflow/internal/realtime"
)

// BoardHandler serves the cached kanban snapshot and applies drag moves.
type BoardHandler struct {
	boards *board.Registry
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(boards *board.Registry) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// Snapshot returns the agency's current board state: column definitions plus
// the three cached work-item slices.
func (h *BoardHandler) Snapshot(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	b, err := h.boards.Get(c.Context(), user.AgencyID)
	if err != nil {
		slog.Error("failed to load board", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	return jsonSuccess(c, fiber.Map{
		"columns":             b.Columns(),
		"content":             b.Items(realtime.SliceContent),
		"creative_requests":   b.Items(realtime.SliceCreativeRequests),
		"adjustment_requests": b.Items(realtime.SliceAdjustmentRequests),
	})
}

// DragEnd applies a card drop. The board updates its cache optimistically
// and rolls back if persistence refuses the move.
func (h *BoardHandler) DragEnd(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		ItemID         string     `json:"item_id"`
		TargetColumnID string     `json:"target_column_id"`
		NewDate        *time.Time `json:"new_date"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	itemID, err := uuid.Parse(body.ItemID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid item id")
	}
	if body.TargetColumnID == "" {
		return jsonError(c, fiber.StatusBadRequest, "target column is required")
	}

	b, err := h.boards.Get(c.Context(), user.AgencyID)
	if err != nil {
		slog.Error("failed to load board", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	if err := b.DragEnd(c.Context(), user, itemID, body.TargetColumnID, body.NewDate); err != nil {
		return jsonOpError(c, err)
	}

	return jsonSuccess(c, fiber.Map{"moved": true})
}
