package ledger

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes ledger read endpoints.
type Handler struct {
	entries Repository
}

// NewHandler constructs a ledger handler.
func NewHandler(entries Repository) *Handler {
	return &Handler{entries: entries}
}

// TransactionResponse is the API representation of a ledger entry.
type TransactionResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Type        string            `json:"type"`
	Currency    string            `json:"currency"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// List returns a user's ledger entries, newest first. Completed deposit
// entries carry the settlement metadata (bank, sender, notification id).
func (h *Handler) List(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id is required")
	}
	limit := c.QueryInt("limit", 50)

	entries, err := h.entries.ListByUser(c.UserContext(), userID, limit)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	out := make([]TransactionResponse, 0, len(entries))
	for _, t := range entries {
		out = append(out, TransactionResponse{
			ID:          t.ID,
			UserID:      t.UserID,
			Type:        t.Type,
			Currency:    t.Currency,
			Amount:      t.Amount,
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
			Metadata:    t.Metadata,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}
