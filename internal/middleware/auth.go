package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"contentflow/internal/db"
	"contentflow/internal/models"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	store *session.Store
	db    *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{store: store, db: db}
}

// RequireAuth ensures the user is authenticated. Browser routes redirect to
// /login; API routes get a 401.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return m.unauthenticated(c)
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return m.unauthenticated(c)
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return m.unauthenticated(c)
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return c.Next()
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return c.Next()
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err == nil {
		c.Locals("user", user)
	}

	return c.Next()
}

func (m *AuthMiddleware) unauthenticated(c fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "authentication required",
		})
	}
	return c.Redirect().To("/login")
}

// UserFromCtx returns the authenticated user, or nil when the route did not
// pass through RequireAuth.
func UserFromCtx(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// RequireAgencySide blocks client-side approvers from agency-only routes.
func RequireAgencySide(c fiber.Ctx) error {
	user := UserFromCtx(c)
	if user == nil || !user.IsAgencySide() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "agency staff only",
		})
	}
	return c.Next()
}

// RequireOverride restricts a route to operators who may force status changes.
func RequireOverride(c fiber.Ctx) error {
	user := UserFromCtx(c)
	if user == nil || !user.CanOverride() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "manager or admin role required",
		})
	}
	return c.Next()
}
