package controllers

import (
	"bytes"
	"errors"
	"html/template"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/wkstats/backend/stats"
)

const insufficientDataMessage = "Not enough data to show progress yet. Come back after two daily updates."

var historyPage = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>WaniKani Progress</title>
    <style>
        body { font-family: sans-serif; margin: 2em; }
        table { border-collapse: collapse; margin-top: 1em; }
        th, td { border: 1px solid #ccc; padding: 6px 12px; text-align: center; }
        th { background: #f2f2f2; }
        button { padding: 8px 16px; }
    </style>
</head>
<body>
    <h1>WaniKani Progress</h1>
    <button onclick="updateData()">Update Data</button>
    <table>
        <tr>
            <th>Date</th>
            <th>Level</th>
            <th>Apprentice</th>
            <th>Guru</th>
            <th>Master</th>
            <th>Enlightened</th>
            <th>Burned</th>
            <th>Total</th>
        </tr>
        {{range .Rows}}
        <tr>
            <td>{{.Date}}</td>
            <td>{{.Level}}</td>
            <td>{{.Apprentice}}</td>
            <td>{{.Guru}}</td>
            <td>{{.Master}}</td>
            <td>{{.Enlightened}}</td>
            <td>{{.Burned}}</td>
            <td>{{.Total}}</td>
        </tr>
        {{end}}
    </table>
    <script>
        function updateData() {
            fetch('/api/update', { method: 'POST' }).then(function (resp) {
                if (resp.ok) {
                    location.reload();
                } else {
                    alert('Update failed');
                }
            });
        }
    </script>
</body>
</html>
`))

type HistoryController struct {
	Tracker *stats.Tracker
	Logger  *log.Logger
}

func NewHistoryController(tracker *stats.Tracker, logger *log.Logger) *HistoryController {
	return &HistoryController{Tracker: tracker, Logger: logger}
}

// GetPage renders the day-over-day progress table as an HTML page. With
// fewer than two recorded dates it returns a plain informational message
// instead of an error.
func (hc *HistoryController) GetPage(c *fiber.Ctx) error {
	rows, err := hc.Tracker.History(c.Context())
	if errors.Is(err, stats.ErrInsufficientData) {
		return c.SendString(insufficientDataMessage)
	}
	if err != nil {
		hc.Logger.Printf("failed to render history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load progress history",
		})
	}

	var buf bytes.Buffer
	if err := historyPage.Execute(&buf, fiber.Map{"Rows": rows}); err != nil {
		hc.Logger.Printf("failed to execute history template: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render page",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// GetDataset returns the raw persisted dataset as JSON.
func (hc *HistoryController) GetDataset(c *fiber.Ctx) error {
	dataset, err := hc.Tracker.Dataset(c.Context())
	if err != nil {
		hc.Logger.Printf("failed to load dataset: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dataset",
		})
	}
	return c.JSON(dataset)
}
