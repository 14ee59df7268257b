package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/example/wkstats/backend/models"
)

// ErrInsufficientData is returned when the dataset holds fewer than two
// dates, so no day-over-day comparison can be made.
var ErrInsufficientData = errors.New("stats: need at least two recorded dates")

// BuildHistory turns the dataset into table rows of day-over-day deltas.
// Each recorded date is compared against the previous recorded date; rows
// come back most recent first. Deterministic for a given dataset.
func BuildHistory(dataset models.Dataset) ([]models.HistoryRow, error) {
	if len(dataset) < 2 {
		return nil, ErrInsufficientData
	}

	// Zero-padded ISO dates sort chronologically as strings.
	dates := make([]string, 0, len(dataset))
	for date := range dataset {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([]models.HistoryRow, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		current, previous := dataset[dates[i]], dataset[dates[i-1]]
		rows = append(rows, models.HistoryRow{
			Date:        dates[i],
			Level:       current.Level,
			Apprentice:  formatDelta(current.Apprentice, previous.Apprentice),
			Guru:        formatDelta(current.Guru, previous.Guru),
			Master:      formatDelta(current.Master, previous.Master),
			Enlightened: formatDelta(current.Enlightened, previous.Enlightened),
			Burned:      formatDelta(current.Burned, previous.Burned),
			Total:       formatDelta(current.Total(), previous.Total()),
		})
	}

	// Most recent date on top.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// formatDelta renders "current (+delta)"; a zero delta shows as "+0".
func formatDelta(current, previous int) string {
	return fmt.Sprintf("%d (%+d)", current, current-previous)
}
