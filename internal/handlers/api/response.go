package api

import (
	"github.com/gofiber/fiber/v3"

	"contentflow/internal/apperr"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonOpError maps a workflow/board error onto its HTTP status. The message
// is passed through untouched so clients see the actionable text.
func jsonOpError(c fiber.Ctx, err error) error {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	status := fiber.StatusInternalServerError
	switch kind {
	case apperr.KindPermissionDenied:
		status = fiber.StatusForbidden
	case apperr.KindInvalidTransition:
		status = fiber.StatusConflict
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindValidation:
		status = fiber.StatusUnprocessableEntity
	case apperr.KindTransientIO:
		status = fiber.StatusBadGateway
	}
	return jsonError(c, status, err.Error())
}
