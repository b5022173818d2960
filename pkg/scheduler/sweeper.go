// Package scheduler runs the periodic webhook listener expiry sweep.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule is the sweep schedule used when none is configured.
const DefaultSchedule = "@every 30s"

// Expirer deactivates expired webhook listeners and reports how many it
// expired.
type Expirer interface {
	ExpireListeners(ctx context.Context) (int, error)
}

type Sweeper struct {
	Schedule string
	expirer  Expirer
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
}

func NewSweeper(schedule string, expirer Expirer, logger *slog.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	sweeper := &Sweeper{
		Schedule: schedule,
		expirer:  expirer,
		logger:   logger.With("module", "listener_sweeper", "schedule", schedule),
	}
	if err := sweeper.Validate(); err != nil {
		return nil, err
	}

	return sweeper, nil
}

func (s *Sweeper) Validate() error {
	if s.expirer == nil {
		return errors.New("listener sweeper requires an expirer")
	}

	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule: %w", err)
	}

	return nil
}

// Start schedules the sweep. Runs never overlap; a sweep still in progress
// when the next tick fires makes that tick a no-op.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("Starting listener sweeper")

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	if _, err := s.cron.AddFunc(s.Schedule, s.run); err != nil {
		s.cancel()

		return fmt.Errorf("failed to schedule listener sweep: %w", err)
	}

	s.cron.Start()

	return nil
}

func (s *Sweeper) run() {
	if _, err := s.Sweep(s.ctx); err != nil {
		s.logger.Error("Listener sweep failed", "error", err)
	}
}

// Sweep runs one expiry pass immediately.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := s.expirer.ExpireListeners(ctx)
	if expired > 0 {
		s.logger.InfoContext(ctx, "Expired webhook listeners", "count", expired)
	}

	return expired, err
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to
// be done.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.logger.Info("Stopping listener sweeper")

	if s.cron == nil {
		return nil
	}

	done := s.cron.Stop()
	defer s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
