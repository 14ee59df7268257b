package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/wkstats/backend/stats"
	"github.com/example/wkstats/backend/utils"
)

type UpdateController struct {
	Tracker *stats.Tracker
	Logger  *log.Logger
}

func NewUpdateController(tracker *stats.Tracker, logger *log.Logger) *UpdateController {
	return &UpdateController{Tracker: tracker, Logger: logger}
}

// PostUpdate runs the fetch-and-merge cycle for today's UTC date. Upstream
// or store failures are the server's problem, so they come back as 500.
func (uc *UpdateController) PostUpdate(c *fiber.Ctx) error {
	uc.Logger.Println("update requested over HTTP")

	if err := uc.Tracker.UpdateToday(c.Context()); err != nil {
		uc.Logger.Printf("update failed: %v", err)
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Data updated",
	})
}
