package api

import (
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v3"

	"contentflow/internal/apperr"
)

func TestJSONOpErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"permission denied", apperr.PermissionDenied("only the client's designated approver may approve"), fiber.StatusForbidden},
		{"invalid transition", apperr.InvalidTransition("approve", "draft"), fiber.StatusConflict},
		{"not found", apperr.NotFound("content piece"), fiber.StatusNotFound},
		{"validation", apperr.Validation("reason", "is required"), fiber.StatusUnprocessableEntity},
		{"transient io", apperr.TransientIO(errors.New("conn reset")), fiber.StatusBadGateway},
		{"untyped", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c fiber.Ctx) error {
				return jsonOpError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"content", []string{"content"}},
		{"content,creative_request", []string{"content", "creative_request"}},
		{" content , creative_request ", []string{"content", "creative_request"}},
		{",,", nil},
	}

	for _, tt := range tests {
		got := splitList(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseLayoutRequiresWidth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		if _, ok := parseLayout(c, 5); ok {
			t.Error("parseLayout() ok = true without container_width")
		}
		return c.SendStatus(fiber.StatusOK)
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	app2 := fiber.New()
	app2.Get("/", func(c fiber.Ctx) error {
		layout, ok := parseLayout(c, 5)
		if !ok {
			t.Error("parseLayout() ok = false with container_width")
		}
		if layout.ContainerWidth != 700 {
			t.Errorf("ContainerWidth = %v, want 700", layout.ContainerWidth)
		}
		if layout.WeekCount != 5 {
			t.Errorf("WeekCount = %v, want 5", layout.WeekCount)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	if _, err := app2.Test(httptest.NewRequest("GET", "/?container_width=700&gap=8", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
}
