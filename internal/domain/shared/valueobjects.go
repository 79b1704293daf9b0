package shared

import (
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTICIPANT ID
// ══════════════════════════════════════════════════════════════════════════════

// ParticipantID identifies a participant. Opaque to the core.
type ParticipantID string

// NewParticipantID trims and validates a raw identifier.
func NewParticipantID(raw string) (ParticipantID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrEmptyParticipantID
	}
	return ParticipantID(id), nil
}

// String returns the raw identifier.
func (id ParticipantID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ParticipantID) IsZero() bool { return id == "" }

// ══════════════════════════════════════════════════════════════════════════════
// DAY KEY
// ══════════════════════════════════════════════════════════════════════════════

// DayKeyLayout is the calendar date layout of a DayKey.
const DayKeyLayout = "2006-01-02"

// DayKey is the per-day partition key: the calendar date of an instant in
// the process location.
type DayKey string

// DayKeyOf returns the day key of t in t's own location.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(DayKeyLayout))
}

// DayKeyIn returns the day key of t in loc.
func DayKeyIn(t time.Time, loc *time.Location) DayKey {
	return DayKeyOf(t.In(loc))
}

// ParseDayKey validates a raw day key.
func ParseDayKey(raw string) (DayKey, error) {
	if _, err := time.Parse(DayKeyLayout, raw); err != nil {
		return "", err
	}
	return DayKey(raw), nil
}

// String returns the raw key.
func (d DayKey) String() string { return string(d) }

// Before reports whether d is an earlier day than other. The layout sorts
// lexically.
func (d DayKey) Before(other DayKey) bool { return d < other }
