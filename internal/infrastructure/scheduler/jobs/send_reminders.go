// Package jobs contains the scheduled jobs of the daily cycle.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/logger"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND REMINDERS JOB
// ══════════════════════════════════════════════════════════════════════════════

// Notifier delivers a reminder intent. Delivery is attempted once.
type Notifier interface {
	Notify(ctx context.Context, intent reminder.Intent) error
}

// SubmissionIndex answers who has submitted on a day.
type SubmissionIndex interface {
	SubmittedOn(day shared.DayKey) map[shared.ParticipantID]struct{}
}

// MemberSource lists the opted-in participants.
type MemberSource interface {
	Members() []shared.ParticipantID
}

// TargetSource returns the configured reminder destination.
type TargetSource interface {
	Get() (reminder.Destination, bool)
}

// SendRemindersJob evaluates the reminder policy on each tick and hands any
// resulting intent to the notifier.
type SendRemindersJob struct {
	policy   *reminder.Policy
	ledger   SubmissionIndex
	members  MemberSource
	target   TargetSource
	clock    timeutil.Clock
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration

	lastRunStats atomic.Value // SendRemindersStats
}

// SendRemindersConfig wires the job.
type SendRemindersConfig struct {
	Policy   *reminder.Policy
	Ledger   SubmissionIndex
	Members  MemberSource
	Target   TargetSource
	Clock    timeutil.Clock
	Notifier Notifier
	Logger   *zap.Logger

	// Timeout bounds a single delivery attempt. Zero means no extra bound.
	Timeout time.Duration
}

// SendRemindersStats describes the last tick.
type SendRemindersStats struct {
	EvaluatedAt time.Time
	DayKey      shared.DayKey
	IntentID    string
	Sent        bool
	Recipients  int
	Urgency     reminder.Urgency
}

// NewSendRemindersJob creates the job.
func NewSendRemindersJob(cfg SendRemindersConfig) *SendRemindersJob {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SendRemindersJob{
		policy:   cfg.Policy,
		ledger:   cfg.Ledger,
		members:  cfg.Members,
		target:   cfg.Target,
		clock:    cfg.Clock,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		timeout:  cfg.Timeout,
	}
}

// Name returns the job name.
func (j *SendRemindersJob) Name() string { return "send_reminders" }

// Description returns a human-readable description.
func (j *SendRemindersJob) Description() string {
	return fmt.Sprintf("reminds pending participants at hours %v", j.policy.Hours())
}

// LastRunStats returns the stats of the most recent tick.
func (j *SendRemindersJob) LastRunStats() (SendRemindersStats, bool) {
	stats, ok := j.lastRunStats.Load().(SendRemindersStats)
	return stats, ok
}

// Run evaluates one tick. A delivery failure is returned but never retried.
func (j *SendRemindersJob) Run(ctx context.Context) error {
	now := j.clock.Now()
	day := shared.DayKeyIn(now, j.clock.Location())
	dest, _ := j.target.Get()

	stats := SendRemindersStats{EvaluatedAt: now, DayKey: day}
	defer func() { j.lastRunStats.Store(stats) }()

	intent, due := j.policy.Evaluate(reminder.Input{
		Now:       now,
		Day:       day,
		Members:   j.members.Members(),
		Submitted: j.ledger.SubmittedOn(day),
		Target:    dest,
	})
	if !due {
		return nil
	}
	intent.ID = uuid.NewString()

	stats.IntentID = intent.ID
	stats.Recipients = intent.RecipientCount()
	stats.Urgency = intent.Urgency

	log := j.logger.With(
		zap.String("intent_id", intent.ID),
		logger.Day(day.String()),
		logger.Recipients(intent.RecipientCount()),
		zap.String("urgency", intent.Urgency.String()),
	)

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	if err := j.notifier.Notify(ctx, intent); err != nil {
		log.Warn("reminder delivery failed", zap.Error(err))
		return fmt.Errorf("send_reminders: deliver %s: %w", intent.ID, err)
	}

	stats.Sent = true
	log.Info("reminder sent", zap.Int("hours_remaining", intent.HoursRemaining))
	return nil
}
