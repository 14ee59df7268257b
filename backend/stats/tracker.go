package stats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/wkstats/backend/models"
	"github.com/example/wkstats/backend/storage"
)

// ProgressSource fetches the current SRS totals and user level upstream.
type ProgressSource interface {
	FetchAssignmentTotals(ctx context.Context) (models.BucketTotals, error)
	FetchUserLevel(ctx context.Context) (int, error)
}

// Tracker owns the update and history paths. Both the scheduler and the HTTP
// handlers go through the same Update routine.
type Tracker struct {
	source ProgressSource
	store  storage.BlobStore
	logger *log.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewTracker(source ProgressSource, store storage.BlobStore, logger *log.Logger) *Tracker {
	return &Tracker{
		source: source,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Update fetches today's totals and level, merges them into the persisted
// dataset under the given date and writes the whole dataset back. Either
// fetch failing aborts before anything is written. The read-modify-write is
// not guarded; two overlapping updates race and the later write wins.
func (t *Tracker) Update(ctx context.Context, date string) error {
	totals, err := t.source.FetchAssignmentTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate assignments: %w", err)
	}

	level, err := t.source.FetchUserLevel(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user level: %w", err)
	}

	t.logger.Printf("fetched totals for %s: apprentice=%d guru=%d master=%d enlightened=%d burned=%d level=%d",
		date,
		totals[models.BucketApprentice],
		totals[models.BucketGuru],
		totals[models.BucketMaster],
		totals[models.BucketEnlightened],
		totals[models.BucketBurned],
		level,
	)

	dataset, err := t.store.Load(ctx)
	if err != nil {
		// A missing blob is the expected first-run state; any other read
		// failure also falls back to an empty dataset so the day is still
		// recorded, at the cost of dropping unreadable history.
		if errors.Is(err, storage.ErrNotFound) {
			t.logger.Printf("no existing dataset, starting a new one")
		} else {
			t.logger.Printf("warning: could not read existing dataset, starting over: %v", err)
		}
		dataset = models.Dataset{}
	}

	dataset[date] = models.NewSnapshot(totals, level, t.now())

	if err := t.store.Save(ctx, dataset); err != nil {
		return fmt.Errorf("failed to persist dataset: %w", err)
	}

	t.logger.Printf("dataset updated for %s (%d dates recorded)", date, len(dataset))
	return nil
}

// UpdateToday runs Update for the current UTC date.
func (t *Tracker) UpdateToday(ctx context.Context) error {
	return t.Update(ctx, t.now().Format("2006-01-02"))
}

// Dataset returns the persisted dataset; a missing blob reads as empty.
func (t *Tracker) Dataset(ctx context.Context) (models.Dataset, error) {
	dataset, err := t.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Dataset{}, nil
	}
	if err != nil {
		return nil, err
	}
	return dataset, nil
}

// History loads the dataset and renders the day-over-day rows.
func (t *Tracker) History(ctx context.Context) ([]models.HistoryRow, error) {
	dataset, err := t.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHistory(dataset)
}
