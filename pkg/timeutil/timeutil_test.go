package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var almaty = time.FixedZone("Asia/Almaty", 5*60*60)

func TestManualClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2026, 10, 14, 20, 0, 0, 0, almaty)
	clock := NewManualClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, almaty, clock.Location())

	clock.Advance(90 * time.Minute)
	assert.Equal(t, 21, clock.Now().Hour())
	assert.Equal(t, 30, clock.Now().Minute())

	clock.Set(start.UTC())
	assert.Equal(t, almaty, clock.Now().Location())
	assert.Equal(t, 20, clock.Now().Hour())
}

func TestNextHour(t *testing.T) {
	t.Run("mid hour", func(t *testing.T) {
		now := time.Date(2026, 10, 14, 20, 37, 12, 0, almaty)
		assert.Equal(t, time.Date(2026, 10, 14, 21, 0, 0, 0, almaty), NextHour(now, almaty))
	})

	t.Run("rolls over midnight", func(t *testing.T) {
		now := time.Date(2026, 12, 31, 23, 59, 0, 0, almaty)
		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, almaty), NextHour(now, almaty))
	})

	t.Run("half hour offset", func(t *testing.T) {
		kolkata := time.FixedZone("IST", 5*60*60+30*60)
		now := time.Date(2026, 10, 14, 9, 45, 0, 0, kolkata)
		next := NextHour(now, kolkata)
		assert.Equal(t, 10, next.Hour())
		assert.Equal(t, 0, next.Minute())
	})
}

func TestDaysBack(t *testing.T) {
	now := time.Date(2026, 3, 2, 1, 0, 0, 0, almaty)
	days := DaysBack(now, almaty, 3)

	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-02", days[0].Format(FormatDate))
	assert.Equal(t, "2026-03-01", days[1].Format(FormatDate))
	assert.Equal(t, "2026-02-28", days[2].Format(FormatDate))

	assert.Nil(t, DaysBack(now, almaty, 0))
	assert.Nil(t, DaysBack(now, almaty, -4))
}

func TestHoursRemainingInDay(t *testing.T) {
	assert.Equal(t, 24, HoursRemainingInDay(time.Date(2026, 10, 14, 0, 0, 0, 0, almaty)))
	assert.Equal(t, 2, HoursRemainingInDay(time.Date(2026, 10, 14, 22, 5, 0, 0, almaty)))
	assert.Equal(t, 1, HoursRemainingInDay(time.Date(2026, 10, 14, 23, 59, 0, 0, almaty)))
}

func TestParseTimestamp(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		ts, err := ParseTimestamp("2026-10-14T16:03:45.5Z", almaty)
		require.NoError(t, err)
		assert.Equal(t, 21, ts.Hour())
		assert.Equal(t, 500*time.Millisecond, time.Duration(ts.Nanosecond()))
	})

	t.Run("naive with microseconds", func(t *testing.T) {
		ts, err := ParseTimestamp("2026-10-14T21:03:45.123456", almaty)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 14, 21, 3, 45, 123456000, almaty), ts)
	})

	t.Run("naive without fraction", func(t *testing.T) {
		ts, err := ParseTimestamp("2026-10-14T21:03:45", almaty)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 14, 21, 3, 45, 0, almaty), ts)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseTimestamp("yesterday-ish", almaty)
		assert.Error(t, err)
	})
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}
