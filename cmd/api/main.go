package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"petphoto_backend/internal/controller"
	"petphoto_backend/internal/middleware"
	"petphoto_backend/internal/model"
	"petphoto_backend/pkg/config"
	"petphoto_backend/pkg/cron"
	"petphoto_backend/pkg/database"
	"petphoto_backend/pkg/email"
	"petphoto_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public Routes
	api.Get("/templates", controller.ListTemplates)
	api.Get("/blog", controller.ListBlogPosts)
	api.Get("/blog/:slug", controller.GetBlogPostBySlug)
	api.Get("/community", controller.ListCommunityPosts)

	// Stripe webhook (imza ile korunur, auth middleware'den geçmez)
	api.Post("/webhooks/stripe", controller.HandleStripeWebhook)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)
	protected.Get("/user", controller.GetProfile)
	protected.Put("/user", controller.UpdateProfile)

	protected.Post("/upload", controller.UploadPetPhoto)

	// Generation routes
	protected.Post("/generate", controller.Generate)
	protected.Get("/generations", controller.ListGenerations)
	protected.Post("/generations", controller.CreateGeneration)
	protected.Delete("/generations/:id", middleware.CheckGenerationOwnership(), controller.DeleteGeneration)

	// Quota routes
	protected.Get("/quota", controller.GetQuota)
	protected.Post("/quota", controller.HandleQuotaOperation)

	// Subscription routes
	protected.Post("/checkout", controller.CreateCheckoutSession)
	protected.Get("/subscriptions/my", controller.GetMySubscription)
	protected.Post("/subscriptions/cancel", controller.CancelSubscription)

	// Blog yönetimi ve topluluk paylaşımı
	protected.Post("/blog", controller.CreateBlogPost)
	protected.Post("/community", controller.ShareGeneration)
	protected.Post("/community/:id/like", controller.LikeCommunityPost)
	protected.Delete("/community/:id", controller.DeleteCommunityPost)
}

func main() {
	cfg := config.Load()

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey); err != nil {
			log.Printf("Could not initialize email service: %v", err)
		}
	}

	controller.InitAuthController()
	controller.InitSubscriptionController()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.UserSubscription{},
		&model.SceneTemplate{},
		&model.GenerationRecord{},
		&model.BlogPost{},
		&model.CommunityPost{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedSceneTemplates(database.DB)

	cron.InitQuotaResetCron()
	cron.InitSubscriptionExpiryCron()

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
