package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupRequestIDApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	app := setupRequestIDApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id on the response")
	}
	resp.Body.Close()
}

func TestRequestIDEchoesCallerID(t *testing.T) {
	app := setupRequestIDApp()

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "relay-device-42")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got := resp.Header.Get(requestIDHeader); got != "relay-device-42" {
		t.Fatalf("request id %q, want relay-device-42", got)
	}
	resp.Body.Close()
}
