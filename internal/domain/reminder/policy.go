package reminder

import (
	"fmt"
	"sort"
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// DefaultHours are the reminder hours used when configuration leaves them unset.
var DefaultHours = []int{20, 22, 23}

// DefaultUrgentThreshold is the hours-remaining value at or below which a
// reminder escalates to URGENT.
const DefaultUrgentThreshold = 2

// Policy is the reminder transition function for a single tick. It holds no
// state between ticks; all inputs are passed to Evaluate.
type Policy struct {
	hours           map[int]struct{}
	urgentThreshold int
}

// NewPolicy validates the reminder hours and urgent threshold.
// Duplicate hours are collapsed.
func NewPolicy(hours []int, urgentThreshold int) (*Policy, error) {
	set := make(map[int]struct{}, len(hours))
	for _, h := range hours {
		if err := shared.ValidateHour("reminder_hours", h); err != nil {
			return nil, err
		}
		set[h] = struct{}{}
	}
	if urgentThreshold < 0 || urgentThreshold > timeutil.HoursPerDay {
		return nil, shared.NewDomainError("reminder", "NewPolicy", shared.ErrInvalidConfiguration,
			fmt.Sprintf("urgent_threshold_hours=%d must be 0-%d", urgentThreshold, timeutil.HoursPerDay))
	}
	return &Policy{hours: set, urgentThreshold: urgentThreshold}, nil
}

// Hours returns the configured reminder hours in ascending order.
func (p *Policy) Hours() []int {
	out := make([]int, 0, len(p.hours))
	for h := range p.hours {
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// IsReminderHour reports whether hour is one of the configured hours.
func (p *Policy) IsReminderHour(hour int) bool {
	_, ok := p.hours[hour]
	return ok
}

// UrgencyFor maps hours remaining to an urgency level.
func (p *Policy) UrgencyFor(hoursRemaining int) Urgency {
	if hoursRemaining <= p.urgentThreshold {
		return UrgencyUrgent
	}
	return UrgencyNormal
}

// Input is the state a policy evaluation reads. Now must already be in the
// clock location.
type Input struct {
	Now       time.Time
	Day       shared.DayKey
	Members   []shared.ParticipantID
	Submitted map[shared.ParticipantID]struct{}
	Target    Destination
}

// Evaluate returns the intent for this tick, or false when no reminder is due:
// the hour is not a reminder hour, no target is configured, or every member
// has already submitted. The returned intent has no ID; the caller assigns one.
func (p *Policy) Evaluate(in Input) (Intent, bool) {
	hour := in.Now.Hour()
	if !p.IsReminderHour(hour) || in.Target.IsZero() {
		return Intent{}, false
	}

	missing := Missing(in.Members, in.Submitted)
	if len(missing) == 0 {
		return Intent{}, false
	}

	remaining := timeutil.HoursRemainingInDay(in.Now)
	return Intent{
		DayKey:         in.Day,
		Target:         in.Target,
		Recipients:     missing,
		Urgency:        p.UrgencyFor(remaining),
		HoursRemaining: remaining,
		EvaluatedAt:    in.Now,
	}, true
}

// Missing returns members that have not submitted, sorted.
func Missing(members []shared.ParticipantID, submitted map[shared.ParticipantID]struct{}) []shared.ParticipantID {
	out := make([]shared.ParticipantID, 0, len(members))
	for _, id := range members {
		if _, ok := submitted[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
