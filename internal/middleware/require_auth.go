package middleware

import (
	"bloghub/internal/authctx"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth rejects requests that JWTUidOnly did not resolve to a user.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := authctx.UserIDFrom(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
		}
		return c.Next()
	}
}
