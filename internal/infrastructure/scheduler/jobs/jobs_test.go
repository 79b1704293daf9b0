package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dailywarden/warden/internal/domain/cycle"
	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/participant"
	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

type recordingNotifier struct {
	mu      sync.Mutex
	intents []reminder.Intent
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, intent reminder.Intent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intents = append(n.intents, intent)
	return n.err
}

type reminderFixture struct {
	clock    *timeutil.ManualClock
	ledger   *ledger.Ledger
	registry *participant.Registry
	target   *reminder.Target
	notifier *recordingNotifier
	job      *SendRemindersJob
	logs     *observer.ObservedLogs
}

func newReminderFixture(t *testing.T, hour int) *reminderFixture {
	t.Helper()
	policy, err := reminder.NewPolicy(reminder.DefaultHours, reminder.DefaultUrgentThreshold)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	f := &reminderFixture{
		clock:    timeutil.NewManualClock(time.Date(2026, 10, 14, hour, 0, 0, 0, time.UTC)),
		ledger:   ledger.New(nil, time.UTC),
		registry: participant.NewRegistry(),
		target:   reminder.NewTarget("-1001"),
		notifier: &recordingNotifier{},
		logs:     logs,
	}
	f.job = NewSendRemindersJob(SendRemindersConfig{
		Policy:   policy,
		Ledger:   f.ledger,
		Members:  f.registry,
		Target:   f.target,
		Clock:    f.clock,
		Notifier: f.notifier,
		Logger:   zap.New(core),
		Timeout:  time.Second,
	})
	f.registry.Register("A")
	f.registry.Register("B")
	_, err = f.ledger.RecordSubmission(context.Background(), "A", "alice", "done", f.clock.Now())
	require.NoError(t, err)
	return f
}

func TestSendRemindersJob_UrgentAt22(t *testing.T) {
	f := newReminderFixture(t, 22)

	require.NoError(t, f.job.Run(context.Background()))

	require.Len(t, f.notifier.intents, 1)
	intent := f.notifier.intents[0]
	assert.NotEmpty(t, intent.ID)
	assert.Equal(t, reminder.UrgencyUrgent, intent.Urgency)
	assert.Equal(t, 2, intent.HoursRemaining)
	assert.Equal(t, []shared.ParticipantID{"B"}, intent.Recipients)
	assert.Equal(t, reminder.Destination("-1001"), intent.Target)

	stats, ok := f.job.LastRunStats()
	require.True(t, ok)
	assert.True(t, stats.Sent)
	assert.Equal(t, intent.ID, stats.IntentID)
	assert.Equal(t, 1, f.logs.FilterMessage("reminder sent").Len())
}

func TestSendRemindersJob_NothingDue(t *testing.T) {
	f := newReminderFixture(t, 15)
	require.NoError(t, f.job.Run(context.Background()))
	assert.Empty(t, f.notifier.intents)

	f.clock.Set(time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC))
	f.target.Clear()
	require.NoError(t, f.job.Run(context.Background()))
	assert.Empty(t, f.notifier.intents)

	stats, ok := f.job.LastRunStats()
	require.True(t, ok)
	assert.False(t, stats.Sent)
}

func TestSendRemindersJob_DeliveryFailureNotRetried(t *testing.T) {
	f := newReminderFixture(t, 20)
	f.notifier.err = errors.New("chat not found")

	err := f.job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Len(t, f.notifier.intents, 1)
	assert.Equal(t, 1, f.logs.FilterMessage("reminder delivery failed").Len())
}

func TestSendRemindersJob_IntentIDsUnique(t *testing.T) {
	f := newReminderFixture(t, 23)
	require.NoError(t, f.job.Run(context.Background()))
	require.NoError(t, f.job.Run(context.Background()))

	require.Len(t, f.notifier.intents, 2)
	assert.NotEqual(t, f.notifier.intents[0].ID, f.notifier.intents[1].ID)
}

func TestDailyResetJob(t *testing.T) {
	var days []shared.DayKey
	reset, err := cycle.NewDailyReset(0, time.UTC, func(_ context.Context, day shared.DayKey) error {
		days = append(days, day)
		return nil
	})
	require.NoError(t, err)

	clock := timeutil.NewManualClock(time.Date(2026, 10, 14, 22, 0, 0, 0, time.UTC))
	job := NewDailyResetJob(reset, clock, zap.NewNop())

	for i := 0; i < 20; i++ {
		require.NoError(t, job.Run(context.Background()))
		clock.Advance(time.Hour)
	}

	assert.Equal(t, []shared.DayKey{"2026-10-15"}, days)
	assert.Equal(t, "daily_reset", job.Name())
}

func TestDailyResetJob_HookFailure(t *testing.T) {
	reset, err := cycle.NewDailyReset(0, time.UTC, func(context.Context, shared.DayKey) error {
		return errors.New("hook broke")
	})
	require.NoError(t, err)

	clock := timeutil.NewManualClock(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))
	job := NewDailyResetJob(reset, clock, nil)

	assert.Error(t, job.Run(context.Background()))
	assert.NoError(t, job.Run(context.Background()), "already fired today")
}
