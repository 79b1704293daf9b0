package cycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailywarden/warden/internal/domain/shared"
)

func TestDailyReset_FiresOncePerDay(t *testing.T) {
	var fired []shared.DayKey
	reset, err := NewDailyReset(0, time.UTC, func(_ context.Context, day shared.DayKey) error {
		fired = append(fired, day)
		return nil
	})
	require.NoError(t, err)

	start := time.Date(2026, 10, 13, 18, 0, 0, 0, time.UTC)
	for h := 0; h < 72; h++ {
		_, err := reset.Tick(context.Background(), start.Add(time.Duration(h)*time.Hour))
		require.NoError(t, err)
	}

	assert.Equal(t, []shared.DayKey{"2026-10-14", "2026-10-15", "2026-10-16"}, fired)
	assert.Equal(t, shared.DayKey("2026-10-16"), reset.LastFired())
}

func TestDailyReset_RepeatedTicksInResetHour(t *testing.T) {
	count := 0
	reset, err := NewDailyReset(3, time.UTC, func(context.Context, shared.DayKey) error {
		count++
		return nil
	})
	require.NoError(t, err)

	base := time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC)
	ok, err := reset.Tick(context.Background(), base)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = reset.Tick(context.Background(), base.Add(20*time.Minute))
	assert.False(t, ok)
	ok, _ = reset.Tick(context.Background(), base.Add(59*time.Minute))
	assert.False(t, ok)

	assert.Equal(t, 1, count)
}

func TestDailyReset_UsesLocation(t *testing.T) {
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)
	reset, err := NewDailyReset(0, almaty)
	require.NoError(t, err)

	// 19:00 UTC is midnight in Almaty.
	ok, err := reset.Tick(context.Background(), time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, shared.DayKey("2026-10-15"), reset.LastFired())
}

func TestDailyReset_HookErrorsJoined(t *testing.T) {
	second := false
	reset, err := NewDailyReset(0, time.UTC,
		func(context.Context, shared.DayKey) error { return errors.New("boom") },
		func(context.Context, shared.DayKey) error { second = true; return nil },
	)
	require.NoError(t, err)

	ok, err := reset.Tick(context.Background(), time.Date(2026, 10, 14, 0, 5, 0, 0, time.UTC))
	assert.True(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, second)
}

func TestNewDailyReset_Validation(t *testing.T) {
	_, err := NewDailyReset(24, time.UTC)
	assert.True(t, shared.IsInvalidConfiguration(err))
	_, err = NewDailyReset(-1, time.UTC)
	assert.True(t, shared.IsInvalidConfiguration(err))
}
