package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"contentflow/internal/db"
	"contentflow/internal/models"
	"contentflow/internal/validation"
)

// ClientHandler manages the agency's client roster.
type ClientHandler struct {
	db *db.DB
}

// NewClientHandler creates a new client handler.
func NewClientHandler(database *db.DB) *ClientHandler {
	return &ClientHandler{db: database}
}

// List returns the agency's clients.
func (h *ClientHandler) List(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	clients, err := h.db.ListClients(c.Context(), user.AgencyID)
	if err != nil {
		slog.Error("failed to list clients", "error", err, "agency_id", user.AgencyID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return jsonSuccess(c, clients)
}

// Create adds a client with its registered geography.
func (h *ClientHandler) Create(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsAgencySide() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	var body struct {
		Name    string   `json:"name"`
		Cities  []string `json:"cities"`
		States  []string `json:"states"`
		Regions []string `json:"regions"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateTitle(body.Name); !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, msg)
	}

	client := &models.Client{
		AgencyID: user.AgencyID,
		Name:     body.Name,
		Cities:   body.Cities,
		States:   body.States,
		Regions:  body.Regions,
	}
	if err := h.db.CreateClient(c.Context(), client); err != nil {
		slog.Error("failed to create client", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("client created", "client_id", client.ID, "created_by", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   client,
	})
}

// SetApprover designates the user allowed to approve the client's content.
func (h *ClientHandler) SetApprover(c fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.CanOverride() {
		return jsonError(c, fiber.StatusForbidden, "insufficient permissions")
	}

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid client id")
	}

	var body struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	approverID, err := uuid.Parse(body.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	client, err := h.db.GetClient(c.Context(), clientID)
	if err != nil {
		if errors.Is(err, db.ErrClientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "client not found")
		}
		slog.Error("failed to load client", "error", err, "client_id", clientID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if client.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "client not found")
	}

	approver, err := h.db.GetUserByID(c.Context(), approverID)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		slog.Error("failed to load user", "error", err, "user_id", approverID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
	if approver.AgencyID != user.AgencyID {
		return jsonError(c, fiber.StatusNotFound, "user not found")
	}

	if err := h.db.SetResponsibleApprover(c.Context(), clientID, approverID); err != nil {
		slog.Error("failed to set approver", "error", err, "client_id", clientID)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	slog.Info("responsible approver set",
		"client_id", clientID, "approver_id", approverID, "set_by", user.Email)
	return jsonSuccess(c, fiber.Map{"updated": true})
}
