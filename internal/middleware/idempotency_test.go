package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/andino-pay/andino_pay/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *atomic.Int32, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	logger := logging.Discard()
	app.Use(Idempotency(cache, time.Minute, logger))

	var hits atomic.Int32
	app.Post("/notifications", func(c *fiber.Ctx) error {
		hits.Add(1)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &hits, cleanup
}

func TestIdempotencyMissingKeyPassesThrough(t *testing.T) {
	app, hits, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/notifications", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Without a key there is no replay: both requests hit the handler.
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 handler invocations, got %d", got)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, hits, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	req := httptest.NewRequest(fiber.MethodPost, "/notifications", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(idempotencyKeyHeader, "notif-42")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status %d got %d", fiber.StatusOK, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	req2 := httptest.NewRequest(fiber.MethodPost, "/notifications", strings.NewReader("{}"))
	req2.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req2.Header.Set(idempotencyKeyHeader, "notif-42")

	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if resp2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected cached status %d got %d", fiber.StatusOK, resp2.StatusCode)
	}

	cachedPayload, err := io.ReadAll(resp2.Body)
	if err != nil {
		t.Fatalf("read cached body: %v", err)
	}
	resp2.Body.Close()

	if string(cachedPayload) != string(payload) {
		t.Fatalf("expected cached payload %s got %s", string(payload), string(cachedPayload))
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected 1 handler invocation, got %d", got)
	}

	var decoded map[string]any
	if err := json.Unmarshal(cachedPayload, &decoded); err != nil {
		t.Fatalf("cached payload invalid json: %v", err)
	}
}

func TestIdempotencySkipsSafeMethods(t *testing.T) {
	app, _, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	app.Get("/notifications", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"total": 0})
	})

	req := httptest.NewRequest(fiber.MethodGet, "/notifications", nil)
	req.Header.Set(idempotencyKeyHeader, "ignored-on-get")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
	resp.Body.Close()
}
