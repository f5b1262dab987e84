package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RelayAuth authenticates the mobile notification relay with a shared bearer
// token, verified against a bcrypt hash so the plaintext token never lives in
// server configuration. An empty hash disables the check (local development).
func RelayAuth(tokenHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenHash == "" {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing relay token")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid relay token")
		}

		return c.Next()
	}
}
