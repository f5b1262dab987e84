package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andino-pay/andino_pay/internal/middleware"
	"github.com/andino-pay/andino_pay/internal/reconciler"
)

// RegisterNotificationRoutes wires the relay-facing notification endpoints.
// Submission is protected by the relay token and rate limited; the listing
// endpoint is read-only audit access.
func RegisterNotificationRoutes(api fiber.Router, h *reconciler.Handler, d Deps) {
	group := api.Group("/notifications")
	group.Post("",
		middleware.RelayAuth(d.Cfg.RelayTokenHash),
		middleware.RelayRateLimit(d.Cache, d.Cfg.RelayRatePerMin),
		h.Submit)
	group.Get("", h.Recent)
}
