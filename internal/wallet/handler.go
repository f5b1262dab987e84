package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet read endpoints.
type Handler struct {
	wallets Repository
}

// NewHandler constructs a wallet handler.
func NewHandler(wallets Repository) *Handler {
	return &Handler{wallets: wallets}
}

// BalanceResponse is the API representation of a wallet balance.
type BalanceResponse struct {
	UserID    string          `json:"user_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Balance returns the balance for a (user, currency) pair.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID := c.Params("userId")
	currency := c.Params("currency")

	w, err := h.wallets.Get(c.UserContext(), userID, currency)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(BalanceResponse{
		UserID:    w.UserID,
		Currency:  w.Currency,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	})
}
