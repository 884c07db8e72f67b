package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/handler"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/realtime"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/service/auth"
	"campus-lostfound/internal/service/media"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logr.Sync()

	db, err := config.NewPostgresDB(cfg, logr)
	if err != nil {
		logr.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.MigrateOnBoot {
		if err := repository.Migrate(context.Background(), db); err != nil {
			logr.Fatalw("failed to apply schema", "error", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = config.NewRedisClient(cfg, logr)
		if err != nil {
			logr.Warnw("redis unavailable, caching and cross-instance events disabled", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// A nil *minio.Client must not end up inside the interface.
	var store media.ObjectStore
	minioClient, err := config.NewMinIOClient(cfg, logr)
	if err != nil {
		logr.Warnw("failed to connect to MinIO, uploads will not work", "error", err)
	} else {
		store = minioClient
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := realtime.NewBroker(rdb, logr)
	go func() {
		if err := broker.Run(ctx); err != nil {
			logr.Errorw("change relay stopped", "error", err)
		}
	}()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, store, broker, cfg, logr)
	handlers := handler.NewHandlers(services, broker)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(logr),
		BodyLimit:    int(cfg.UploadMaxBytes) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		<-ctx.Done()
		logr.Infow("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logr.Errorw("shutdown failed", "error", err)
		}
	}()

	logr.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logr.Fatalw("failed to start server", "error", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")
	optional := middleware.AuthOptional(authService)
	required := middleware.AuthRequired(authService)
	active := middleware.RequireActive()

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)
	authRoutes.Post("/logout", h.Auth.Logout)
	authRoutes.Post("/forgot-password", h.Auth.ForgotPassword)
	authRoutes.Post("/reset-password", h.Auth.ResetPassword)
	authRoutes.Get("/me", required, h.Auth.Me)

	items := v1.Group("/items")
	items.Get("/", optional, h.Item.List)
	items.Get("/similar", h.Item.Similar)
	items.Get("/stats", h.Dashboard.GetStats)
	items.Get("/:itemId", optional, h.Item.Get)
	items.Get("/:itemId/comments", optional, h.Comment.List)
	items.Post("/", required, active, h.Item.Create)
	items.Put("/:itemId", required, active, h.Item.Update)
	items.Delete("/:itemId", required, active, h.Item.Delete)
	items.Patch("/:itemId/visibility", required, active, h.Item.SetVisibility)
	items.Post("/:itemId/revert", required, active, h.Claim.RevertToLost)
	items.Post("/:itemId/mark-claimed", required, active, h.Claim.MarkClaimed)
	items.Post("/:itemId/mark-returned", required, active, h.Claim.MarkReturned)
	items.Get("/:itemId/claims", required, h.Claim.ListForItem)
	items.Post("/:itemId/claims", required, active, h.Claim.Submit)
	items.Get("/:itemId/activity", required, h.Audit.ItemActivity)
	items.Post("/:itemId/comments", required, active, h.Comment.Create)
	items.Put("/:itemId/comments/:commentId", required, active, h.Comment.Update)
	items.Delete("/:itemId/comments/:commentId", required, active, h.Comment.Delete)
	items.Get("/:itemId/messages", required, h.Message.Thread)
	items.Post("/:itemId/messages", required, active, h.Message.Send)
	items.Put("/:itemId/messages/:messageId", required, active, h.Message.Edit)
	items.Delete("/:itemId/messages/:messageId", required, active, h.Message.Delete)

	claims := v1.Group("/claims", required)
	claims.Get("/mine", h.Claim.ListMine)
	claims.Post("/:claimId/approve", active, h.Claim.Approve)
	claims.Post("/:claimId/reject", active, h.Claim.Reject)
	claims.Delete("/:claimId", active, h.Claim.Delete)

	v1.Get("/conversations", required, h.Message.Conversations)

	notifications := v1.Group("/notifications", required)
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	v1.Post("/uploads", required, active, h.Media.Upload)

	users := v1.Group("/users")
	users.Put("/me", required, active, h.User.UpdateProfile)
	users.Get("/:userId", optional, h.User.GetProfile)

	live := v1.Group("/live")
	live.Get("/items/:status", optional, h.Live.Items)
	live.Get("/items/:itemId/comments", optional, h.Live.Comments)
	live.Get("/items/:itemId/messages", required, h.Live.Messages)
	live.Get("/conversations", required, h.Live.Conversations)
	live.Get("/notifications", required, h.Live.Notifications)
	live.Get("/changes", required, h.Live.Changes)
}
