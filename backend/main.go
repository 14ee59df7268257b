package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/wkstats/backend/config"
	"github.com/example/wkstats/backend/middleware"
	"github.com/example/wkstats/backend/routes"
	"github.com/example/wkstats/backend/scheduler"
	"github.com/example/wkstats/backend/stats"
	"github.com/example/wkstats/backend/storage"
	"github.com/example/wkstats/backend/utils"
	"github.com/example/wkstats/backend/wanikani"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Blob store for the history dataset
	store, err := storage.NewGormStore(db, cfg.BlobContainer, cfg.BlobName)
	if err != nil {
		log.Fatalf("Error initializing blob store: %v", err)
	}

	// WaniKani client and tracker
	client := wanikani.New(cfg.WaniKaniBaseURL, cfg.WaniKaniAPIKey, cfg.HTTPTimeout)
	tracker := stats.NewTracker(client, store, logger)

	// Daily update schedule
	sched := scheduler.New(tracker, logger)
	if err := sched.Start(cfg.UpdateTime); err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}
	defer sched.Stop()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, tracker, cfg, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
