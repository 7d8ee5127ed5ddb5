package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bloghub/internal/authctx"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type stubAuth struct {
	uid bson.ObjectID
	err error
}

func (s stubAuth) Authenticate(_ context.Context, token string) (bson.ObjectID, error) {
	if token != "good" {
		return bson.NilObjectID, &services.Error{Kind: services.ErrUnauthorized, Message: "Not authorized, token failed"}
	}
	return s.uid, s.err
}

func newApp(auth Authenticator) *fiber.App {
	app := fiber.New()
	app.Use(JWTUidOnly(auth))
	app.Get("/open", func(c *fiber.Ctx) error {
		uid, ok := authctx.UserIDFrom(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(uid.Hex())
	})
	app.Get("/closed", RequireAuth(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, authz string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestJWTUidOnly(t *testing.T) {
	uid := bson.NewObjectID()
	app := newApp(stubAuth{uid: uid})

	cases := []struct {
		name, path, authz string
		code              int
		body              string
	}{
		{"anonymous open", "/open", "", 200, "anonymous"},
		{"non-bearer ignored", "/open", "Basic abc", 200, "anonymous"},
		{"valid token", "/open", "Bearer good", 200, uid.Hex()},
		{"case-insensitive scheme", "/open", "bearer good", 200, uid.Hex()},
		{"bad token", "/open", "Bearer bad", 401, "token failed"},
		{"anonymous closed", "/closed", "", 401, "no token"},
		{"authed closed", "/closed", "Bearer good", 200, "ok"},
	}
	for _, tc := range cases {
		code, body := do(t, app, tc.path, tc.authz)
		if code != tc.code || !strings.Contains(body, tc.body) {
			t.Errorf("%s: %d %q", tc.name, code, body)
		}
	}
}

func TestJWTUidOnlyStoreError(t *testing.T) {
	app := newApp(stubAuth{err: errors.New("db down")})
	if code, _ := do(t, app, "/open", "Bearer good"); code != 500 {
		t.Fatalf("code = %d", code)
	}
}
