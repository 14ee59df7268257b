package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Updater is the daily job the scheduler fires.
type Updater interface {
	UpdateToday(ctx context.Context) error
}

// Scheduler runs the daily snapshot update.
type Scheduler struct {
	scheduler *gocron.Scheduler
	updater   Updater
	logger    *log.Logger
}

// New creates a scheduler. Jobs run in UTC.
func New(updater Updater, logger *log.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		updater:   updater,
		logger:    logger,
	}
}

// Start schedules the daily update at the given "HH:MM" UTC time and runs
// the scheduler in the background. The trigger has no client to report to,
// so failures are only logged.
func (s *Scheduler) Start(at string) error {
	_, err := s.scheduler.Every(1).Day().At(at).Do(s.runUpdate)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.logger.Printf("daily update scheduled at %s UTC", at)
	return nil
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runUpdate() {
	s.logger.Println("timer triggered, starting data fetch")
	if err := s.updater.UpdateToday(context.Background()); err != nil {
		s.logger.Printf("scheduled update failed: %v", err)
	}
}
