package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andino-pay/andino_pay/internal/deposit"
)

// RegisterDepositRoutes wires the deposit intake endpoints.
func RegisterDepositRoutes(api fiber.Router, h *deposit.Handler) {
	group := api.Group("/deposits")
	group.Post("", h.Create)
	group.Get("/pending", h.Pending)
}
