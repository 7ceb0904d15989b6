package api

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/aggregate"
	"contentflow/internal/calendar"
	"contentflow/internal/db"
	"contentflow/internal/models"
)

// CalendarHandler renders the month, week and day views as JSON grids with
// work items bucketed per cell and the historical-event overlay applied.
type CalendarHandler struct {
	db        *db.DB
	agg       *aggregate.Aggregator
	weekStart time.Weekday
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(database *db.DB, agg *aggregate.Aggregator, weekStart time.Weekday) *CalendarHandler {
	return &CalendarHandler{db: database, agg: agg, weekStart: weekStart}
}

// Month returns the anchor month as whole weeks of day cells. Optional
// container_width/container_height/header_height/gap query params also
// return the computed day-cell geometry.
func (h *CalendarHandler) Month(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	anchor, scope, ok2 := h.parseView(c, user)
	if !ok2 {
		return nil
	}

	cells := calendar.MonthGrid(anchor, h.weekStart)
	cells, err := h.populate(c, scope, cells)
	if err != nil {
		slog.Error("failed to build month view", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	resp := fiber.Map{
		"anchor":     anchor.Format("2006-01-02"),
		"week_count": calendar.WeekCount(cells),
		"cells":      cells,
	}
	if layout, ok := parseLayout(c, calendar.WeekCount(cells)); ok {
		resp["cell_size"] = calendar.MonthCellSize(layout)
	}
	return jsonSuccess(c, resp)
}

// Week returns the week containing the anchor date.
func (h *CalendarHandler) Week(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	anchor, scope, ok2 := h.parseView(c, user)
	if !ok2 {
		return nil
	}

	cells := calendar.WeekGrid(anchor, h.weekStart)
	cells, err := h.populate(c, scope, cells)
	if err != nil {
		slog.Error("failed to build week view", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	return jsonSuccess(c, fiber.Map{
		"anchor": anchor.Format("2006-01-02"),
		"cells":  cells,
	})
}

// Day returns the anchor date's items bucketed by hour.
func (h *CalendarHandler) Day(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	anchor, scope, ok2 := h.parseView(c, user)
	if !ok2 {
		return nil
	}

	items, err := h.agg.LoadWorkItems(c.Context(), scope, aggregate.ViewCalendar, nil)
	if err != nil {
		slog.Error("failed to build day view", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	return jsonSuccess(c, fiber.Map{
		"anchor": anchor.Format("2006-01-02"),
		"hours":  calendar.BucketByHour(anchor, items),
	})
}

// parseView reads the anchor date and client scope. On a bad request it
// writes the error response and reports false.
func (h *CalendarHandler) parseView(c fiber.Ctx, user *models.User) (time.Time, aggregate.Scope, bool) {
	anchor := calendar.StartOfDay(time.Now())
	if raw := c.Query("anchor"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			_ = jsonError(c, fiber.StatusBadRequest, "invalid anchor date")
			return time.Time{}, aggregate.Scope{}, false
		}
		anchor = parsed
	}

	scope := aggregate.Scope{AgencyID: user.AgencyID}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = jsonError(c, fiber.StatusBadRequest, "invalid client id")
			return time.Time{}, aggregate.Scope{}, false
		}
		scope.ClientID = &id
	}
	return anchor, scope, true
}

// populate buckets the scope's items into the cells and applies the
// historical-event overlay for the scope's geography.
func (h *CalendarHandler) populate(c fiber.Ctx, scope aggregate.Scope, cells []calendar.Cell) ([]calendar.Cell, error) {
	items, err := h.agg.LoadWorkItems(c.Context(), scope, aggregate.ViewCalendar, nil)
	if err != nil {
		return nil, err
	}
	cells = calendar.BucketItems(cells, items)

	geo, err := h.scopeGeography(c, scope)
	if err != nil {
		return nil, err
	}
	return calendar.ApplyEventOverlay(c.Context(), h.db, cells, geo)
}

func (h *CalendarHandler) scopeGeography(c fiber.Ctx, scope aggregate.Scope) (calendar.Geography, error) {
	if scope.ClientID != nil {
		client, err := h.db.GetClient(c.Context(), *scope.ClientID)
		if err != nil {
			if errors.Is(err, db.ErrClientNotFound) {
				return calendar.Geography{}, nil
			}
			return calendar.Geography{}, err
		}
		return calendar.ClientGeography(client), nil
	}

	clients, err := h.db.ListClients(c.Context(), scope.AgencyID)
	if err != nil {
		return calendar.Geography{}, err
	}
	return calendar.MergeGeography(clients), nil
}

func parseLayout(c fiber.Ctx, weekCount int) (calendar.Layout, bool) {
	width, err := strconv.ParseFloat(c.Query("container_width"), 64)
	if err != nil || width <= 0 {
		return calendar.Layout{}, false
	}
	height, _ := strconv.ParseFloat(c.Query("container_height"), 64)
	header, _ := strconv.ParseFloat(c.Query("header_height"), 64)
	gap, _ := strconv.ParseFloat(c.Query("gap"), 64)

	return calendar.Layout{
		ContainerWidth:  width,
		ContainerHeight: height,
		HeaderHeight:    header,
		Gap:             gap,
		WeekCount:       weekCount,
	}, true
}
