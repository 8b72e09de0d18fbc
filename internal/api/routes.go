package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahafa/newsroom/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, adminKey string) {
	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	api.Get("/news", handlers.GetNews)
	api.Post("/translate", handlers.Translate)

	// Webhook proxies: always 200, envelope in the body
	proxy := api.Group("/proxy")
	{
		proxy.Post("/improve", handlers.ImproveProxy)
		proxy.Post("/search", handlers.SearchProxy)
		proxy.Post("/briefing", handlers.BriefingProxy)
		proxy.Post("/transcription", handlers.TranscriptionProxy)
		proxy.Post("/pdf", handlers.PDFProxy)
	}

	api.Post("/images/generate", handlers.GenerateImage)
	api.Post("/analytics/track", handlers.TrackAnalytics)

	api.Get("/articles", handlers.ListArticles)
	api.Get("/articles/:id", handlers.GetArticleByID)
	api.Get("/profiles", handlers.ListProfiles)
	api.Get("/profiles/:id", handlers.GetProfile)

	// Admin endpoints
	admin := api.Group("/admin", middleware.AdminOnly(adminKey))
	{
		admin.Post("/articles", handlers.CreateArticle)
		admin.Get("/analytics", handlers.AnalyticsRange)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
