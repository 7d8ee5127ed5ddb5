package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"bloghub/internal/authctx"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (bson.ObjectID, error)
}

// JWTUidOnly parses an optional bearer token. Requests without one pass
// through anonymously; a token that is present but bad is rejected.
func JWTUidOnly(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return c.Next()
		}

		tokenStr := strings.TrimSpace(h[7:])
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, no token")
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		uid, err := auth.Authenticate(ctx, tokenStr)
		if err != nil {
			return unauthorized(err)
		}

		c.Locals(authctx.LocalsKey, uid.Hex())
		return c.Next()
	}
}

// unauthorized keeps the service message for auth failures. Anything else
// is a store error and surfaces as a 500.
func unauthorized(err error) error {
	if errors.Is(err, services.ErrUnauthorized) {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	return err
}
