// Package timeutil provides the process-wide clock and calendar helpers.
// All day and hour arithmetic is done in a single location, the one the
// Clock is configured with; there is no per-user timezone.
package timeutil

import (
	"sync"
	"time"
)

// Common date/time formats.
const (
	// FormatDate is the day key format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the short time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatNaiveISO is the offset-less ISO 8601 form, fractional seconds optional.
	FormatNaiveISO = "2006-01-02T15:04:05.999999999"
)

// HoursPerDay is the fixed length of the daily cycle.
const HoursPerDay = 24

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Clock supplies the current instant in a fixed location.
type Clock interface {
	// Now returns the current time in Location().
	Now() time.Time

	// Location returns the location used for day and hour boundaries.
	Location() *time.Location
}

// SystemClock reads the wall clock.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a wall clock for the given location (nil = time.Local).
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

// Now returns the current time.
func (c *SystemClock) Now() time.Time { return time.Now().In(c.loc) }

// Location returns the clock location.
func (c *SystemClock) Location() *time.Location { return c.loc }

// ManualClock is a Clock that only moves when told to. Safe for concurrent use.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
	loc *time.Location
}

// NewManualClock creates a manual clock frozen at t, reporting t's location.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t, loc: t.Location()}
}

// Now returns the frozen instant.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now.In(c.loc)
}

// Location returns the clock location.
func (c *ManualClock) Location() *time.Location { return c.loc }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// LoadLocation resolves an IANA name. Empty or "Local" yields time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

// NextHour returns the start of the hour following t in loc.
// Computed from calendar fields so half-hour offsets stay aligned to local hours.
func NextHour(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour()+1, 0, 0, 0, loc)
}

// DaysBack returns n calendar days ending with t's day, most recent first.
// Each value is noon local time to keep DST jumps off the date boundary.
func DaysBack(t time.Time, loc *time.Location, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	l := t.In(loc)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = time.Date(l.Year(), l.Month(), l.Day()-i, 12, 0, 0, 0, loc)
	}
	return days
}

// HoursRemainingInDay is 24 minus the hour of t. The reset hour is not
// taken into account.
func HoursRemainingInDay(t time.Time) int {
	return HoursPerDay - t.Hour()
}

// FormatTimeStr formats t as HH:MM in loc.
func FormatTimeStr(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatTime)
}

// ParseTimestamp parses RFC 3339 (with or without fractional seconds) or
// the offset-less ISO form, the latter interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation(FormatNaiveISO, value, loc)
}
