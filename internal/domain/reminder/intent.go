// Package reminder decides, for one hourly tick, who gets nudged and how
// loudly.
package reminder

import (
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// URGENCY
// ══════════════════════════════════════════════════════════════════════════════

// Urgency is the escalation level of a reminder.
type Urgency string

const (
	// UrgencyNormal is a plain nudge.
	UrgencyNormal Urgency = "NORMAL"

	// UrgencyUrgent is used once the deadline is within the urgent threshold.
	UrgencyUrgent Urgency = "URGENT"
)

// String returns the urgency name.
func (u Urgency) String() string { return string(u) }

// IsUrgent reports whether u is URGENT.
func (u Urgency) IsUrgent() bool { return u == UrgencyUrgent }

// ══════════════════════════════════════════════════════════════════════════════
// INTENT
// ══════════════════════════════════════════════════════════════════════════════

// Intent is a request to deliver one reminder. Delivery is best effort and
// at most once; an intent is never retried.
type Intent struct {
	ID             string
	DayKey         shared.DayKey
	Target         Destination
	Recipients     []shared.ParticipantID
	Urgency        Urgency
	HoursRemaining int
	EvaluatedAt    time.Time
}

// RecipientCount returns the number of participants being reminded.
func (i Intent) RecipientCount() int { return len(i.Recipients) }
