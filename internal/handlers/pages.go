package handlers

import (
	"github.com/gofiber/fiber/v3"

	"contentflow/internal/config"
	"contentflow/internal/models"
)

// PagesHandler renders the HTML shell pages. All data loading happens
// client-side against the JSON API and the SSE stream.
type PagesHandler struct {
	cfg *config.Config
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(cfg *config.Config) *PagesHandler {
	return &PagesHandler{cfg: cfg}
}

func (h *PagesHandler) branding(c fiber.Ctx) fiber.Map {
	m := fiber.Map{
		"SiteTitle":   h.cfg.SiteTitle,
		"SiteTagline": h.cfg.SiteTagline,
		"SiteFooter":  h.cfg.SiteFooter,
	}
	if user, ok := c.Locals("user").(*models.User); ok {
		m["User"] = user
	}
	return m
}

// Home redirects to the board.
func (h *PagesHandler) Home(c fiber.Ctx) error {
	return c.Redirect().To("/board")
}

// Board renders the kanban board page.
func (h *PagesHandler) Board(c fiber.Ctx) error {
	data := h.branding(c)
	data["Page"] = "board"
	return c.Render("board", data)
}

// Calendar renders the calendar page.
func (h *PagesHandler) Calendar(c fiber.Ctx) error {
	data := h.branding(c)
	data["Page"] = "calendar"
	return c.Render("calendar", data)
}

// LoginPage renders the login prompt for unauthenticated visitors.
func (h *PagesHandler) LoginPage(c fiber.Ctx) error {
	return c.Render("login", h.branding(c))
}
