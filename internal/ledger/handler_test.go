package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupLedgerApp(t *testing.T) (*fiber.App, *MemoryRepository) {
	t.Helper()
	entries := NewMemoryRepository()
	app := fiber.New()
	app.Get("/api/v1/transactions", NewHandler(entries).List)
	return app, entries
}

func seedEntry(t *testing.T, entries *MemoryRepository, userID, amount string) Transaction {
	t.Helper()
	tx, err := entries.CreatePending(context.Background(), Transaction{
		UserID:   userID,
		Type:     TypeDeposit,
		Currency: "BOB",
		Amount:   decimal.RequireFromString(amount),
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return tx
}

func TestListTransactionsByUser(t *testing.T) {
	app, entries := setupLedgerApp(t)
	userID := uuid.NewString()

	seedEntry(t, entries, userID, "150.75")
	completed := seedEntry(t, entries, userID, "80")
	completedAt := time.Now().UTC()
	completed.Status = StatusCompleted
	completed.CompletedAt = &completedAt
	completed.Metadata = map[string]string{"bank": "BCP", "sender_name": "Juan Pérez"}
	entries.Put(completed)
	seedEntry(t, entries, uuid.NewString(), "999") // other user, must not appear

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions?user_id="+userID, nil))
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
		Total        int                   `json:"total"`
		Transactions []TransactionResponse `json:"transactions"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Total != 2 {
		t.Fatalf("total %d, want 2", decoded.Total)
	}
	for _, tx := range decoded.Transactions {
		if tx.UserID != userID {
			t.Fatalf("foreign entry %s leaked into listing", tx.ID)
		}
		if tx.ID == completed.ID {
			if tx.Status != StatusCompleted || tx.Metadata["bank"] != "BCP" {
				t.Fatalf("completed entry missing settlement detail: %+v", tx)
			}
		}
	}
}

func TestListTransactionsHonorsLimit(t *testing.T) {
	app, entries := setupLedgerApp(t)
	userID := uuid.NewString()
	for i := 0; i < 3; i++ {
		seedEntry(t, entries, userID, "10")
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions?user_id="+userID+"&limit=2", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Total != 2 {
		t.Fatalf("total %d, want 2", decoded.Total)
	}
}

func TestListTransactionsRequiresUserID(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
	resp.Body.Close()
}
