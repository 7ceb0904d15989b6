// Package api exposes the JSON API under /api/v1.
package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/models"
	"contentflow/internal/workflow"
)

// WorkflowHandler exposes the workflow transitions over JSON.
type WorkflowHandler struct {
	engine *workflow.Engine
}

// NewWorkflowHandler creates a new API workflow handler.
func NewWorkflowHandler(engine *workflow.Engine) *WorkflowHandler {
	return &WorkflowHandler{engine: engine}
}

func currentUser(c fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}

func contentID(c fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// Submit moves a draft into review.
func (h *WorkflowHandler) Submit(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.engine.SubmitForReview(c.Context(), id, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// Approve approves a piece in review. Only the client's designated approver
// gets through.
func (h *WorkflowHandler) Approve(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.engine.Approve(c.Context(), id, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// RequestChanges sends a piece back for changes with a required reason.
func (h *WorkflowHandler) RequestChanges(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body struct {
		Reason  string `json:"reason"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	piece, adj, err := h.engine.RequestChanges(c.Context(), id, body.Reason, body.Details, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"content":            piece,
		"adjustment_request": adj,
	})
}

// MarkAdjustmentDone returns a changes-requested piece to review.
func (h *WorkflowHandler) MarkAdjustmentDone(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.engine.MarkAdjustmentDone(c.Context(), id, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// Schedule arms auto-publishing at a future time.
func (h *WorkflowHandler) Schedule(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body struct {
		At time.Time `json:"at"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	piece, err := h.engine.ScheduleAutoPublish(c.Context(), id, body.At, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// CancelSchedule disarms auto-publishing.
func (h *WorkflowHandler) CancelSchedule(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.engine.CancelSchedule(c.Context(), id, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// Publish publishes immediately. Missing media or caption come back as
// warnings alongside the published piece.
func (h *WorkflowHandler) Publish(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, warnings, err := h.engine.PublishNow(c.Context(), id, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	if warnings == nil {
		warnings = []string{}
	}
	return jsonSuccess(c, fiber.Map{
		"content":  piece,
		"warnings": warnings,
	})
}

// Override forces a piece into an arbitrary status.
func (h *WorkflowHandler) Override(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	piece, err := h.engine.ManualOverride(c.Context(), id, body.Status, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}

// Reschedule moves a piece to a new date. With day_only the original
// time-of-day is preserved.
func (h *WorkflowHandler) Reschedule(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body struct {
		Date    time.Time `json:"date"`
		DayOnly bool      `json:"day_only"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Date.IsZero() {
		return jsonError(c, fiber.StatusUnprocessableEntity, "date: is required")
	}

	piece, err := h.engine.Reschedule(c.Context(), id, body.Date, body.DayOnly, user)
	if err != nil {
		return jsonOpError(c, err)
	}
	return jsonSuccess(c, piece)
}
