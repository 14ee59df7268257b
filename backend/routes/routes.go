package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/wkstats/backend/config"
	"github.com/example/wkstats/backend/controllers"
	"github.com/example/wkstats/backend/middleware"
	"github.com/example/wkstats/backend/stats"
)

func SetupRoutes(app *fiber.App, tracker *stats.Tracker, cfg *config.Config, logger *log.Logger) {
	// View path
	historyController := controllers.NewHistoryController(tracker, logger)
	app.Get("/", historyController.GetPage)
	app.Get("/api/history", historyController.GetDataset)

	// Update path
	adminToken := middleware.AdminTokenMiddleware(cfg)
	updateController := controllers.NewUpdateController(tracker, logger)
	app.Post("/api/update", adminToken, updateController.PostUpdate)

	// Export
	exportController := controllers.NewExportController(tracker, logger)
	app.Get("/api/export", exportController.GetExport)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
