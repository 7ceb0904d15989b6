package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/db"
	"contentflow/internal/models"
	"contentflow/internal/realtime"
	"contentflow/internal/validation"
)

// ColumnHandler manages the per-agency kanban column set. Every mutation
// publishes a columns event so open boards reload their layout.
type ColumnHandler struct {
	db  *db.DB
	bus realtime.Bus
}

// NewColumnHandler creates a new column handler.
func NewColumnHandler(database *db.DB, bus realtime.Bus) *ColumnHandler {
	return &ColumnHandler{db: database, bus: bus}
}

// List returns the agency's columns in display order.
func (h *ColumnHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cols, err := h.db.ListColumns(c.Context(), user.AgencyID)
	if err != nil {
		slog.Error("failed to list columns", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if cols == nil {
		cols = []models.ColumnDefinition{}
	}
	return jsonSuccess(c, cols)
}

// Upsert creates or renames a column. Custom columns must carry the custom_
// prefix; system column ids can only be recolored and renamed.
func (h *ColumnHandler) Upsert(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	var body struct {
		ColumnID string `json:"column_id"`
		Name     string `json:"name"`
		Color    string `json:"color"`
		Order    int    `json:"order"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateColumnID(body.ColumnID) {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid column id")
	}
	if ok, msg := validation.ValidateTitle(body.Name); !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, msg)
	}

	col := &models.ColumnDefinition{
		AgencyID: user.AgencyID,
		ColumnID: body.ColumnID,
		Name:     body.Name,
		Color:    body.Color,
		Order:    body.Order,
	}
	if err := h.db.UpsertColumn(c.Context(), col); err != nil {
		if errors.Is(err, db.ErrDuplicateColumn) {
			return jsonError(c, fiber.StatusConflict, "a column with this id already exists")
		}
		slog.Error("failed to upsert column", "error", err, "column_id", body.ColumnID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	h.publishChange(c, user.AgencyID)
	return jsonSuccess(c, col)
}

// Delete removes a custom column. System columns are refused.
func (h *ColumnHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid column id")
	}

	col, err := h.db.GetColumn(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrColumnNotFound) {
			return jsonError(c, fiber.StatusNotFound, "column not found")
		}
		slog.Error("failed to load column", "error", err, "column_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if col.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "column not found")
	}

	if err := h.db.DeleteColumn(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, db.ErrSystemColumn):
			return jsonError(c, fiber.StatusUnprocessableEntity, "system columns cannot be deleted")
		case errors.Is(err, db.ErrColumnNotFound):
			return jsonError(c, fiber.StatusNotFound, "column not found")
		}
		slog.Error("failed to delete column", "error", err, "column_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("column deleted", "column_id", col.ColumnID, "agency_id", user.AgencyID)
	h.publishChange(c, user.AgencyID)
	return jsonSuccess(c, fiber.Map{"deleted": true})
}

func (h *ColumnHandler) publishChange(c fiber.Ctx, agencyID uuid.UUID) {
	if h.bus == nil {
		return
	}
	ev := realtime.Event{AgencyID: agencyID, Slice: realtime.SliceColumns}
	if err := h.bus.Publish(c.Context(), ev); err != nil {
		slog.Warn("failed to publish column change", "error", err, "agency_id", agencyID)
	}
}
