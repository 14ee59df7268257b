package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/example/wkstats/backend/stats"
)

type ExportController struct {
	Tracker *stats.Tracker
	Logger  *log.Logger
}

func NewExportController(tracker *stats.Tracker, logger *log.Logger) *ExportController {
	return &ExportController{Tracker: tracker, Logger: logger}
}

// GetExport downloads the rendered history as an .xlsx workbook with the
// same columns as the HTML table.
func (ec *ExportController) GetExport(c *fiber.Ctx) error {
	rows, err := ec.Tracker.History(c.Context())
	if errors.Is(err, stats.ErrInsufficientData) {
		return c.Status(fiber.StatusOK).SendString(insufficientDataMessage)
	}
	if err != nil {
		ec.Logger.Printf("failed to build export: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export",
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	header := []interface{}{"Date", "Level", "Apprentice", "Guru", "Master", "Enlightened", "Burned", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		ec.Logger.Printf("failed to write export header: %v", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	for i, row := range rows {
		cells := []interface{}{row.Date, row.Level, row.Apprentice, row.Guru, row.Master, row.Enlightened, row.Burned, row.Total}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			ec.Logger.Printf("failed to write export row %d: %v", i+2, err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		ec.Logger.Printf("failed to serialize export: %v", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="wanikani_progress.xlsx"`)
	return c.Send(buf.Bytes())
}
