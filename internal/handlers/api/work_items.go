package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/aggregate"
	"contentflow/internal/models"
)

// WorkItemsHandler serves the merged work-item feed behind the kanban and
// calendar surfaces.
type WorkItemsHandler struct {
	agg *aggregate.Aggregator
}

// NewWorkItemsHandler creates a new work-items handler.
func NewWorkItemsHandler(agg *aggregate.Aggregator) *WorkItemsHandler {
	return &WorkItemsHandler{agg: agg}
}

// List returns the scope's work items for the requested view. Query params:
// view (kanban, default, or calendar), client_id, item_types and statuses
// as comma-separated lists.
func (h *WorkItemsHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	scope := aggregate.Scope{AgencyID: user.AgencyID}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid client id")
		}
		scope.ClientID = &id
	}

	view := aggregate.ViewKanban
	switch c.Query("view") {
	case "", "kanban":
	case "calendar":
		view = aggregate.ViewCalendar
	default:
		return jsonError(c, fiber.StatusBadRequest, "unknown view")
	}

	var filters *aggregate.Filters
	itemTypes := splitList(c.Query("item_types"))
	statuses := splitList(c.Query("statuses"))
	for _, t := range itemTypes {
		switch t {
		case models.ItemTypeContent, models.ItemTypeCreativeRequest, models.ItemTypeAdjustmentRequest:
		default:
			return jsonError(c, fiber.StatusBadRequest, "unknown item type")
		}
	}
	for _, s := range statuses {
		if !models.ValidStatus(s) {
			return jsonError(c, fiber.StatusBadRequest, "unknown status")
		}
	}
	if len(itemTypes) > 0 || len(statuses) > 0 {
		filters = &aggregate.Filters{ItemTypes: itemTypes, Statuses: statuses}
	}

	items, err := h.agg.LoadWorkItems(c.Context(), scope, view, filters)
	if err != nil {
		slog.Error("failed to load work items", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if items == nil {
		items = []models.WorkItem{}
	}
	return jsonSuccess(c, items)
}

// Requests returns the open request feed used by the board's requests column.
func (h *WorkItemsHandler) Requests(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	scope := aggregate.Scope{AgencyID: user.AgencyID}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid client id")
		}
		scope.ClientID = &id
	}

	items, err := h.agg.LoadRequestFeed(c.Context(), scope, nil)
	if err != nil {
		slog.Error("failed to load request feed", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if items == nil {
		items = []models.WorkItem{}
	}
	return jsonSuccess(c, items)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
