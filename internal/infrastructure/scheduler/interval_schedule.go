package scheduler

import (
	"fmt"
	"time"

	"github.com/dailywarden/warden/pkg/timeutil"
)

// IntervalSchedule schedules a job to run at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a new IntervalSchedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{
		Interval: interval,
	}
}

// Next returns the next scheduled time.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String returns the string representation of the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

// HourlySchedule fires at the top of every hour in a fixed location.
type HourlySchedule struct {
	loc *time.Location
}

// NewHourlySchedule creates an hourly schedule aligned to loc.
func NewHourlySchedule(loc *time.Location) *HourlySchedule {
	if loc == nil {
		loc = time.Local
	}
	return &HourlySchedule{loc: loc}
}

// Next returns the start of the next hour after t.
func (s *HourlySchedule) Next(t time.Time) time.Time {
	return timeutil.NextHour(t, s.loc)
}

// String returns the string representation of the schedule.
func (s *HourlySchedule) String() string {
	return "@hourly " + s.loc.String()
}
