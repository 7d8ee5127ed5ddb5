package routes

import (
	"bloghub/internal/controllers"
	"bloghub/internal/middleware"
	"bloghub/internal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesPost(r fiber.Router, svc *services.PostService) {
	blogs := r.Group("/blogs")
	auth := middleware.RequireAuth()

	blogs.Get("/", controllers.ListPostsHandler(svc))
	blogs.Post("/", auth, controllers.CreatePostHandler(svc))

	// must precede /:id
	blogs.Get("/user/my-blogs", auth, controllers.MyPostsHandler(svc))
	blogs.Get("/user/stats", auth, controllers.PostStatsHandler(svc))

	blogs.Get("/:id", controllers.GetPostHandler(svc))
	blogs.Put("/:id", auth, controllers.UpdatePostHandler(svc))
	blogs.Delete("/:id", auth, controllers.DeletePostHandler(svc))
	blogs.Post("/:id/like", auth, controllers.ToggleLikeHandler(svc))
}
