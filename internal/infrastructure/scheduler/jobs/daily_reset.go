package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/domain/cycle"
	"github.com/dailywarden/warden/pkg/logger"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY RESET JOB
// ══════════════════════════════════════════════════════════════════════════════

// DailyResetJob drives the daily reset guard from the hourly tick.
type DailyResetJob struct {
	reset  *cycle.DailyReset
	clock  timeutil.Clock
	logger *zap.Logger
}

// NewDailyResetJob creates the job.
func NewDailyResetJob(reset *cycle.DailyReset, clock timeutil.Clock, log *zap.Logger) *DailyResetJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &DailyResetJob{reset: reset, clock: clock, logger: log}
}

// Name returns the job name.
func (j *DailyResetJob) Name() string { return "daily_reset" }

// Description returns a human-readable description.
func (j *DailyResetJob) Description() string {
	return fmt.Sprintf("starts a new cycle at %02d:00", j.reset.ResetHour())
}

// Run ticks the guard once.
func (j *DailyResetJob) Run(ctx context.Context) error {
	fired, err := j.reset.Tick(ctx, j.clock.Now())
	if !fired {
		return nil
	}
	day := j.reset.LastFired()
	if err != nil {
		j.logger.Warn("daily reset hooks failed", logger.Day(day.String()), zap.Error(err))
		return fmt.Errorf("daily_reset: %w", err)
	}
	j.logger.Info("daily reset", logger.Day(day.String()))
	return nil
}
