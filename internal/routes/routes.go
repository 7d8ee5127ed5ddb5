package routes

import (
	"bloghub/internal/middleware"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// uploadOverhead covers multipart framing around an image.
const uploadOverhead = 1 << 20

// BodyLimit is the request body cap in bytes for a configured limit in MB.
// It never drops below the largest accepted image plus multipart overhead,
// so oversized images reach the upload service and get its field error.
func BodyLimit(mb int) int {
	return max(mb<<20, services.MaxImageBytes+uploadOverhead)
}

type Services struct {
	Auth    *services.AuthService
	Posts   *services.PostService
	Uploads *services.UploadService
}

// Setup parses the optional bearer token once and mounts every resource at
// the root and again under /api.
func Setup(app *fiber.App, s Services) {
	app.Use(middleware.JWTUidOnly(s.Auth))

	for _, r := range []fiber.Router{app, app.Group("/api")} {
		SetupAuth(r, s.Auth)
		SetupRoutesPost(r, s.Posts)
		SetupRoutesUpload(r, s.Uploads)
	}
}
