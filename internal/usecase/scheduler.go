package usecase

import (
	"context"
	"log/slog"
	"time"

	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
)

// Scheduler wires the interval driver with the batch use case.
type Scheduler struct {
	driver ports.Scheduler
	batch  *Batch
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring batch runs.
func NewScheduler(driver ports.Scheduler, batch *Batch, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, batch: batch, logger: logging.OrDiscard(log)}
}

// Start registers the batch with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.batch == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.logger.Info("scheduled batch triggered", "at", trigger.Format(time.RFC3339))
		if _, err := s.batch.ProcessPending(ctx); err != nil {
			s.logger.Error("scheduled batch failed", "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
