package routes

import (
	"bloghub/internal/controllers"
	"bloghub/internal/middleware"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuth(r fiber.Router, svc *services.AuthService) {
	auth := r.Group("/auth")
	auth.Post("/register", controllers.Register(svc))
	auth.Post("/login", controllers.Login(svc))
	auth.Get("/profile", middleware.RequireAuth(), controllers.Profile(svc))
}
