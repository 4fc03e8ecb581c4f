package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestCORSExposesRenderError(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Get("/map", func(c fiber.Ctx) error {
		c.Set("X-Render-Error", "partial")
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/map", nil)
	req.Header.Set("Origin", "http://example.test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Expose-Headers"); got != "X-Render-Error" {
		t.Errorf("expected X-Render-Error exposed, got %q", got)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	for _, production := range []bool{false, true} {
		app := fiber.New()
		app.Use(Logger(production))
		app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(http.StatusTeapot) })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusTeapot {
			t.Errorf("production=%v: status %d", production, resp.StatusCode)
		}
	}
}
