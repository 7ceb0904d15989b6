package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/db"
	"contentflow/internal/models"
	"contentflow/internal/validation"
)

// RequestHandler serves creative requests and the adjustment history that
// hangs off content pieces.
type RequestHandler struct {
	db *db.DB
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(database *db.DB) *RequestHandler {
	return &RequestHandler{db: database}
}

// CreateCreative files a new creative request for the current user's agency.
func (h *RequestHandler) CreateCreative(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		ClientID       string     `json:"client_id"`
		Title          string     `json:"title"`
		RequestType    string     `json:"request_type"`
		TextContent    *string    `json:"text_content"`
		CaptionText    *string    `json:"caption_text"`
		Observations   *string    `json:"observations"`
		ReferenceFiles []string   `json:"reference_files"`
		Deadline       *time.Time `json:"deadline"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateTitle(body.Title); !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, msg)
	}
	for _, f := range body.ReferenceFiles {
		if ok, msg := validation.ValidateURL(f); !ok {
			return jsonError(c, fiber.StatusUnprocessableEntity, msg)
		}
	}

	clientID, err := uuid.Parse(body.ClientID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}
	client, err := h.db.GetClient(c.Context(), clientID)
	if err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		slog.Error("failed to load client", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if client.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "client not found")
	}

	req := &models.CreativeRequest{
		AgencyID:       user.AgencyID,
		ClientID:       clientID,
		Title:          body.Title,
		RequestType:    body.RequestType,
		TextContent:    body.TextContent,
		CaptionText:    body.CaptionText,
		Observations:   body.Observations,
		ReferenceFiles: body.ReferenceFiles,
		Deadline:       body.Deadline,
	}
	if err := h.db.CreateCreativeRequest(c.Context(), req); err != nil {
		slog.Error("failed to create creative request", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("creative request created",
		"request_id", req.ID, "client_id", clientID, "created_by", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   req,
	})
}

// ListCreative returns the agency's open creative requests, optionally
// filtered to one client.
func (h *RequestHandler) ListCreative(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid client id")
		}
		clientID = &id
	}

	reqs, err := h.db.ListPendingCreativeRequests(c.Context(), user.AgencyID, clientID)
	if err != nil {
		slog.Error("failed to list creative requests", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if reqs == nil {
		reqs = []models.CreativeRequest{}
	}
	return jsonSuccess(c, reqs)
}

// UpdateCreativeStatus moves a creative request between job statuses.
func (h *RequestHandler) UpdateCreativeStatus(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		JobStatus string `json:"job_status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	switch body.JobStatus {
	case models.JobStatusPending, models.JobStatusInProgress, models.JobStatusCompleted:
	default:
		return jsonError(c, fiber.StatusUnprocessableEntity, "unknown job status")
	}

	if err := h.ownCreative(c, user, id); err != nil {
		return h.creativeErr(c, err, id)
	}

	if err := h.db.UpdateCreativeRequestStatus(c.Context(), id, body.JobStatus); err != nil {
		return h.creativeErr(c, err, id)
	}

	req, err := h.db.GetCreativeRequest(c.Context(), id)
	if err != nil {
		return h.creativeErr(c, err, id)
	}
	return jsonSuccess(c, req)
}

// FulfillCreative links a produced content piece to the request and closes it.
func (h *RequestHandler) FulfillCreative(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		ContentID string `json:"content_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	pieceID, err := uuid.Parse(body.ContentID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	if err := h.ownCreative(c, user, id); err != nil {
		return h.creativeErr(c, err, id)
	}

	piece, err := h.db.GetContentPiece(c.Context(), pieceID)
	if err != nil {
		if errors.Is(err, db.ErrContentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "content piece not found")
		}
		slog.Error("failed to load content piece", "error", err, "content_id", pieceID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if piece.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "content piece not found")
	}

	if err := h.db.FulfillCreativeRequest(c.Context(), id, pieceID); err != nil {
		return h.creativeErr(c, err, id)
	}

	req, err := h.db.GetCreativeRequest(c.Context(), id)
	if err != nil {
		return h.creativeErr(c, err, id)
	}
	slog.Info("creative request fulfilled",
		"request_id", id, "content_id", pieceID, "fulfilled_by", user.Email)
	return jsonSuccess(c, req)
}

// ListAdjustments returns the adjustment history of a content piece,
// oldest first.
func (h *RequestHandler) ListAdjustments(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.db.GetContentPiece(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrContentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "content piece not found")
		}
		slog.Error("failed to load content piece", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if piece.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "content piece not found")
	}

	adjustments, err := h.db.ListAdjustmentRequestsForContent(c.Context(), id)
	if err != nil {
		slog.Error("failed to list adjustment requests", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if adjustments == nil {
		adjustments = []models.AdjustmentRequest{}
	}
	return jsonSuccess(c, adjustments)
}

// ownCreative verifies the request exists and belongs to the user's agency.
func (h *RequestHandler) ownCreative(c fiber.Ctx, user *models.User, id uuid.UUID) error {
	req, err := h.db.GetCreativeRequest(c.Context(), id)
	if err != nil {
		return err
	}
	if req.AgencyID != user.AgencyID {
		return db.ErrCreativeRequestNotFound
	}
	return nil
}

func (h *RequestHandler) creativeErr(c fiber.Ctx, err error, id uuid.UUID) error {
	if errors.Is(err, db.ErrCreativeRequestNotFound) {
		return jsonError(c, fiber.StatusNotFound, "creative request not found")
	}
	slog.Error("creative request operation failed", "error", err, "request_id", id)
	return jsonError(c, fiber.StatusInternalServerError, "internal error")
}
