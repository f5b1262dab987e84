package reconciler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/andino-pay/andino_pay/internal/notification"
)

func setupTestApp(f *fixture) *fiber.App {
	app := fiber.New()
	h := NewHandler(notification.NewMemoryLog(), f.service)
	app.Post("/api/v1/notifications", h.Submit)
	app.Get("/api/v1/notifications", h.Recent)
	return app
}

func TestSubmitNotificationEndToEnd(t *testing.T) {
	f := newFixture()
	d := f.seedDeposit(t, "Juan", "Pérez", 150.75)
	app := setupTestApp(f)

	body := `{"bank":"BCP","amount":150.75,"sender_name":"juan pérez","transaction_type":"transfer","raw_text":"Transferencia Bs. 150.75","timestamp":1735689600000}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/notifications", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded struct {
		Status         string  `json:"status"`
		NotificationID string  `json:"notification_id"`
		Validation     Outcome `json:"validation"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Status != "success" {
		t.Fatalf("status %q, want success", decoded.Status)
	}
	if decoded.NotificationID == "" {
		t.Fatal("missing notification id")
	}
	if !decoded.Validation.Validated || !decoded.Validation.Processed {
		t.Fatalf("unexpected validation: %+v", decoded.Validation)
	}
	if decoded.Validation.DepositID != d.ID {
		t.Fatalf("deposit %s, want %s", decoded.Validation.DepositID, d.ID)
	}
}

func TestSubmitNotificationWithoutMatchStillStored(t *testing.T) {
	f := newFixture()
	app := setupTestApp(f)

	body := `{"bank":"BNB","amount":42.00,"sender_name":"Nadie Conocido","raw_text":"pago"}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/notifications", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	resp.Body.Close()

	// The notification is persisted even though nothing settled.
	listReq := httptest.NewRequest(fiber.MethodGet, "/api/v1/notifications?limit=5", nil)
	listResp, err := app.Test(listReq)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	listPayload, err := io.ReadAll(listResp.Body)
	if err != nil {
		t.Fatalf("read list body: %v", err)
	}
	listResp.Body.Close()

	var listed struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(listPayload, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Total != 1 {
		t.Fatalf("stored notifications %d, want 1", listed.Total)
	}
}

func TestSubmitNotificationRejectsMalformedBody(t *testing.T) {
	f := newFixture()
	app := setupTestApp(f)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/notifications", strings.NewReader("not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
	resp.Body.Close()
}
