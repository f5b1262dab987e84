package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andino-pay/andino_pay/internal/ledger"
)

// RegisterTransactionRoutes wires the ledger history endpoint.
func RegisterTransactionRoutes(api fiber.Router, h *ledger.Handler) {
	api.Get("/transactions", h.List)
}
