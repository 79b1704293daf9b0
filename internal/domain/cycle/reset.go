// Package cycle controls the daily deadline boundary.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// ResetHook runs when a new cycle starts. day is the day that just began.
type ResetHook func(ctx context.Context, day shared.DayKey) error

// DailyReset fires at most once per calendar day, on the first tick whose
// hour equals the reset hour.
//
// Nothing is cleared on reset: the ledger partitions by day on its own and the
// registry is kept. Hooks are the extension point for per-cycle work.
type DailyReset struct {
	resetHour int
	loc       *time.Location

	mu        sync.Mutex
	lastFired shared.DayKey
	hooks     []ResetHook
}

// NewDailyReset validates resetHour. Day boundaries are computed in loc.
func NewDailyReset(resetHour int, loc *time.Location, hooks ...ResetHook) (*DailyReset, error) {
	if err := shared.ValidateHour("reset_hour", resetHour); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &DailyReset{resetHour: resetHour, loc: loc, hooks: hooks}, nil
}

// ResetHour returns the configured hour.
func (r *DailyReset) ResetHour() int { return r.resetHour }

// AddHook registers hook to run on every future reset.
func (r *DailyReset) AddHook(hook ResetHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// LastFired returns the day of the most recent reset, empty if none yet.
func (r *DailyReset) LastFired() shared.DayKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFired
}

// Tick fires the reset if now is in the reset hour of a day that has not
// fired yet. It reports whether it fired. When it fires, every hook runs even
// if an earlier one fails; their errors are joined.
func (r *DailyReset) Tick(ctx context.Context, now time.Time) (bool, error) {
	local := now.In(r.loc)
	if local.Hour() != r.resetHour {
		return false, nil
	}
	day := shared.DayKeyOf(local)

	r.mu.Lock()
	if r.lastFired == day {
		r.mu.Unlock()
		return false, nil
	}
	r.lastFired = day
	hooks := make([]ResetHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	var errs []error
	for i, hook := range hooks {
		if err := hook(ctx, day); err != nil {
			errs = append(errs, fmt.Errorf("reset hook %d: %w", i, err))
		}
	}
	return true, errors.Join(errs...)
}
