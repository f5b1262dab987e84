package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andino-pay/andino_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet read endpoints.
func RegisterWalletRoutes(api fiber.Router, h *wallet.Handler) {
	api.Get("/wallets/:userId/:currency", h.Balance)
}
