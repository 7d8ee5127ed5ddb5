// @title BlogHub API
// @version 1.0
// @description Multi-user blogging API: posts with draft/published lifecycle, likes, uploads.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bloghub/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"bloghub/bootstrap"
	"bloghub/config"
	"bloghub/database"
	"bloghub/internal/controllers"
	repo "bloghub/internal/repository"
	"bloghub/internal/routes"
	"bloghub/internal/services"
	"bloghub/internal/storage"
)

// openStores picks the repositories for cfg.StoreDriver. The returned func
// releases the connection.
func openStores(ctx context.Context, cfg config.Config) (repo.PostRepository, repo.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := database.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := bootstrap.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return repo.NewPostgresPostRepo(pool), repo.NewPostgresUserRepo(pool), pool.Close, nil

	case "memory":
		log.Println("using in-memory store, data is lost on restart")
		return repo.NewMemoryPostRepo(), repo.NewMemoryUserRepo(), func() {}, nil

	default:
		client, db, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := bootstrap.EnsurePostIndexes(ctx, db); err != nil {
			database.DisconnectMongo(client)
			return nil, nil, nil, err
		}
		return repo.NewMongoPostRepo(db), repo.NewMongoUserRepo(db), func() { database.DisconnectMongo(client) }, nil
	}
}

func main() {
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	posts, users, closeStore, err := openStores(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store %q: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	images, err := storage.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	svcs := routes.Services{
		Auth:    services.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpire),
		Posts:   services.NewPostService(posts, users),
		Uploads: services.NewUploadService(images),
	}

	app := fiber.New(fiber.Config{
		AppName:      "BlogHub API",
		BodyLimit:    routes.BodyLimit(cfg.BodyLimitMB),
		ErrorHandler: controllers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "BlogHub API is running"})
	})

	routes.Setup(app, svcs)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Println("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("listening on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("listen: %v", err)
	}
}
