// Package scheduler runs the pipeline on a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron triggers a job on a fixed schedule in a given timezone.
type Cron struct {
	expression string
	cron       *cron.Cron
	logger     *slog.Logger
}

// New constructs a cron scheduler.
func New(expression string, location *time.Location, logger *slog.Logger) *Cron {
	return &Cron{
		expression: expression,
		cron:       cron.New(cron.WithLocation(location)),
		logger:     logger.With("component", "scheduler"),
	}
}

// Start registers the job and begins the schedule. The job receives the
// scheduled fire time.
func (c *Cron) Start(ctx context.Context, job func(time.Time)) error {
	_, err := c.cron.AddFunc(c.expression, func() {
		job(time.Now())
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", c.expression, err)
	}

	c.cron.Start()
	c.logger.Info("scheduler started", "expression", c.expression)
	return nil
}

// Stop halts the schedule and waits for a running job to finish, bounded by
// ctx.
func (c *Cron) Stop(ctx context.Context) error {
	done := c.cron.Stop()
	select {
	case <-done.Done():
		c.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
