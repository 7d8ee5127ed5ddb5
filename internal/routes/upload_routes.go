package routes

import (
	"bloghub/internal/controllers"
	"bloghub/internal/middleware"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesUpload(r fiber.Router, svc *services.UploadService) {
	up := r.Group("/upload", middleware.RequireAuth())
	up.Post("/image", controllers.UploadImageHandler(svc))
	up.Delete("/image/:publicId", controllers.DeleteImageHandler(svc))
}
