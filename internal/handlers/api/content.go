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

// ContentHandler exposes CRUD for content pieces. Workflow transitions live
// on WorkflowHandler; this handler only touches fields outside the state
// machine.
type ContentHandler struct {
	db *db.DB
}

// NewContentHandler creates a new content piece handler.
func NewContentHandler(database *db.DB) *ContentHandler {
	return &ContentHandler{db: database}
}

type contentBody struct {
	ClientID     string     `json:"client_id"`
	Title        string     `json:"title"`
	Caption      string     `json:"caption"`
	Format       string     `json:"format"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Deadline     *time.Time `json:"deadline"`
	Channels     []string   `json:"channels"`
	SupplierLink *string    `json:"supplier_link"`
}

func (b *contentBody) validate() (int, string) {
	if ok, msg := validation.ValidateTitle(b.Title); !ok {
		return fiber.StatusUnprocessableEntity, msg
	}
	if b.Format != "" && !validation.ValidateFormat(b.Format) {
		return fiber.StatusUnprocessableEntity, "unknown content format"
	}
	if ok, msg := validation.ValidateChannels(b.Channels); !ok {
		return fiber.StatusUnprocessableEntity, msg
	}
	if b.SupplierLink != nil && *b.SupplierLink != "" {
		if ok, msg := validation.ValidateURL(*b.SupplierLink); !ok {
			return fiber.StatusUnprocessableEntity, msg
		}
	}
	return 0, ""
}

// Create adds a new content piece in draft for the current user's agency.
func (h *ContentHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body contentBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if code, msg := body.validate(); code != 0 {
		return jsonError(c, code, msg)
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

	piece := &models.ContentPiece{
		AgencyID:     user.AgencyID,
		ClientID:     clientID,
		OwnerID:      user.ID,
		Title:        body.Title,
		Caption:      body.Caption,
		Format:       body.Format,
		ScheduledAt:  body.ScheduledAt,
		Deadline:     body.Deadline,
		Channels:     body.Channels,
		SupplierLink: body.SupplierLink,
	}
	if err := h.db.CreateContentPiece(c.Context(), piece); err != nil {
		slog.Error("failed to create content piece", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("content piece created",
		"content_id", piece.ID, "client_id", clientID, "owner", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   piece,
	})
}

// Get returns a single content piece.
func (h *ContentHandler) Get(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	piece, err := h.loadOwned(c, user, id)
	if err != nil {
		return h.loadErr(c, err, id)
	}
	return jsonSuccess(c, piece)
}

// List returns the agency's content pieces, optionally filtered to one client.
func (h *ContentHandler) List(c fiber.Ctx) error {
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

	pieces, err := h.db.ListContentPieces(c.Context(), user.AgencyID, clientID)
	if err != nil {
		slog.Error("failed to list content pieces", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if pieces == nil {
		pieces = []models.ContentPiece{}
	}
	return jsonSuccess(c, pieces)
}

// Update edits the non-workflow fields of a piece.
func (h *ContentHandler) Update(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body contentBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if code, msg := body.validate(); code != 0 {
		return jsonError(c, code, msg)
	}

	if _, err := h.loadOwned(c, user, id); err != nil {
		return h.loadErr(c, err, id)
	}

	err = h.db.UpdateContentFields(c.Context(), id,
		body.Title, body.Caption, body.Channels, body.Deadline, body.SupplierLink)
	if err != nil {
		if errors.Is(err, db.ErrContentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "content piece not found")
		}
		slog.Error("failed to update content piece", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	piece, err := h.db.GetContentPiece(c.Context(), id)
	if err != nil {
		slog.Error("failed to reload content piece", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	return jsonSuccess(c, piece)
}

// Delete removes a piece and its media.
func (h *ContentHandler) Delete(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	if _, err := h.loadOwned(c, user, id); err != nil {
		return h.loadErr(c, err, id)
	}

	if err := h.db.DeleteContentPiece(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrContentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "content piece not found")
		}
		slog.Error("failed to delete content piece", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("content piece deleted", "content_id", id, "deleted_by", user.Email)
	return jsonSuccess(c, fiber.Map{"deleted": true})
}

// AddMedia attaches a media asset to a piece.
func (h *ContentHandler) AddMedia(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := contentID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	var body struct {
		FileURL      string `json:"file_url"`
		FileType     string `json:"file_type"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateURL(body.FileURL); !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, msg)
	}

	if _, err := h.loadOwned(c, user, id); err != nil {
		return h.loadErr(c, err, id)
	}

	media := &models.ContentMedia{
		ContentID:    id,
		FileURL:      body.FileURL,
		FileType:     body.FileType,
		DisplayOrder: body.DisplayOrder,
	}
	if err := h.db.AddContentMedia(c.Context(), media); err != nil {
		slog.Error("failed to attach media", "error", err, "content_id", id)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   media,
	})
}

// loadOwned fetches a piece and hides it from users outside its agency.
func (h *ContentHandler) loadOwned(c fiber.Ctx, user *models.User, id uuid.UUID) (*models.ContentPiece, error) {
	piece, err := h.db.GetContentPiece(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if piece.AgencyID != user.AgencyID {
		return nil, db.ErrContentNotFound
	}
	return piece, nil
}

func (h *ContentHandler) loadErr(c fiber.Ctx, err error, id uuid.UUID) error {
	if errors.Is(err, db.ErrContentNotFound) {
		return jsonError(c, fiber.StatusNotFound, "content piece not found")
	}
	slog.Error("failed to load content piece", "error", err, "content_id", id)
	return jsonError(c, fiber.StatusInternalServerError, "internal error")
}
