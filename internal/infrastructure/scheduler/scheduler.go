// Package scheduler runs the periodic background jobs: hourly reminder
// evaluation and the daily reset.
//
// Each job runs in its own Task. A task waits for the readiness gate, ticks
// once immediately, then ticks on its schedule until stopped. A tick that
// fails or panics is logged, and the next tick runs as usual.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dailywarden/warden/pkg/logger"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the task is stopping.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// Gate blocks until the delivery platform is ready.
type Gate interface {
	WaitUntilReady(ctx context.Context) error
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context) error

// WaitUntilReady calls f.
func (f GateFunc) WaitUntilReady(ctx context.Context) error { return f(ctx) }

// OpenGate never blocks.
var OpenGate Gate = GateFunc(func(context.Context) error { return nil })

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilJob is returned when trying to register a nil job.
	ErrNilJob = errors.New("job cannot be nil")

	// ErrNilSchedule is returned when trying to register a job with nil schedule.
	ErrNilSchedule = errors.New("schedule cannot be nil")

	// ErrJobAlreadyExists is returned when a job with the same name already exists.
	ErrJobAlreadyExists = errors.New("job already exists")

	// ErrJobNotFound is returned when a job is not found.
	ErrJobNotFound = errors.New("job not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the Scheduler.
type Config struct {
	// Logger for structured logging.
	Logger *zap.Logger

	// Clock supplies the time schedules are computed from.
	Clock timeutil.Clock

	// Gate is awaited by every task before its first tick. Nil means OpenGate.
	Gate Gate
}

// Scheduler owns one Task per registered job.
type Scheduler struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	logger *zap.Logger
	clock  timeutil.Clock
	gate   Gate
}

// NewScheduler creates a new Scheduler with the given configuration.
func NewScheduler(config Config) *Scheduler {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Clock == nil {
		config.Clock = timeutil.NewSystemClock(nil)
	}
	if config.Gate == nil {
		config.Gate = OpenGate
	}
	return &Scheduler{
		tasks:  make(map[string]*Task),
		logger: config.Logger.With(logger.Component("scheduler")),
		clock:  config.Clock,
		gate:   config.Gate,
	}
}

// Register adds a job with the given schedule. The task is not started.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	s.tasks[name] = newTask(job, schedule, s.gate, s.clock, s.logger)
	s.logger.Info("job registered",
		logger.Job(name),
		zap.String("description", job.Description()),
		zap.String("schedule", schedule.String()),
	)
	return nil
}

// Task returns the task for a job.
func (s *Scheduler) Task(name string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return t, nil
}

// Start starts every task. Already running tasks are left alone.
func (s *Scheduler) Start(ctx context.Context) {
	tasks := s.sortedTasks()
	for _, t := range tasks {
		t.Start(ctx)
	}
	s.logger.Info("scheduler started", zap.Int("jobs_count", len(tasks)))
}

// Stop stops every task and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	var wg sync.WaitGroup
	for _, t := range s.sortedTasks() {
		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			t.Stop()
		}(t)
	}
	wg.Wait()
	s.logger.Info("scheduler stopped")
}

// IsRunning reports whether any task is running.
func (s *Scheduler) IsRunning() bool {
	for _, t := range s.sortedTasks() {
		if t.IsRunning() {
			return true
		}
	}
	return false
}

// RunNow immediately executes a job by name, ignoring its schedule and gate.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*JobResult, error) {
	t, err := s.Task(name)
	if err != nil {
		return nil, err
	}
	result := t.tick(ctx)
	return &result, result.Error
}

// ListJobs returns information about all registered jobs, sorted by name.
func (s *Scheduler) ListJobs() []JobInfo {
	tasks := s.sortedTasks()
	infos := make([]JobInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, t.Info())
	}
	return infos
}

func (s *Scheduler) sortedTasks() []*Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].job.Name() < out[j].job.Name() })
	return out
}
