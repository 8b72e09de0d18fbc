package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sahafa/newsroom/internal/api"
	"github.com/sahafa/newsroom/internal/cache"
	"github.com/sahafa/newsroom/internal/config"
	"github.com/sahafa/newsroom/internal/images"
	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/middleware"
	"github.com/sahafa/newsroom/internal/news"
	"github.com/sahafa/newsroom/internal/store"
	"github.com/sahafa/newsroom/internal/webhook"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	// News cache: Redis when reachable, in-memory otherwise. The cache is
	// an optimization, not a dependency.
	var newsCache cache.NewsCache
	newsCache, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory news cache")
		newsCache = cache.NewMockNewsCache()
	}
	defer func() {
		if err := newsCache.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing news cache")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Postgres store for analytics, profiles and cached articles
	st, err := store.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()
	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	// Webhook client shared by every proxy endpoint
	client := webhook.NewClient(cfg.WebhookTimeout)

	// News aggregation
	fetcher := news.NewFetcher(cfg.RSSConverterURL, cfg.WebhookTimeout)
	aggregator := news.NewAggregator(fetcher, newsCache, cfg.NewsCacheTTL, cfg.MaxConcurrency)

	// Image generation, with optional R2 mirroring
	var mirror *images.Mirror
	if cfg.MirroringEnabled() {
		mirror, err = images.NewMirror(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("R2 mirroring disabled")
			mirror = nil
		}
	}
	translator := images.NewPromptTranslator(client, cfg.TranslationWebhookURL)
	generator := images.NewGenerator(client, translator, mirror, cfg.ImageWebhookURL)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    50 << 20, // audio/PDF uploads pass through here
	})

	// Global middleware
	app.Use(recover.New()) // Recover from panics
	app.Use(middleware.RequestLogger())

	// Setup API routes
	handlers := api.NewHandlers(cfg, client, aggregator, st, generator)
	api.SetupRoutes(app, handlers, cfg.AdminAPIKey)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
