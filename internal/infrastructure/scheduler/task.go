package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dailywarden/warden/pkg/logger"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// JobInfo contains information about a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	Running     bool      `json:"running"`
	LastRun     time.Time `json:"last_run,omitempty"`
	NextRun     time.Time `json:"next_run,omitempty"`
	RunCount    int64     `json:"run_count"`
	FailCount   int64     `json:"fail_count"`
	LastError   string    `json:"last_error,omitempty"`
}

// Task runs one job on its schedule. Start and Stop are idempotent and may be
// called from any goroutine.
type Task struct {
	job      Job
	schedule Schedule
	gate     Gate
	clock    timeutil.Clock
	logger   *zap.Logger

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	lastRun   time.Time
	nextRun   time.Time
	runCount  int64
	failCount int64
	lastErr   error
}

func newTask(job Job, schedule Schedule, gate Gate, clock timeutil.Clock, log *zap.Logger) *Task {
	return &Task{
		job:      job,
		schedule: schedule,
		gate:     gate,
		clock:    clock,
		logger:   log.With(logger.Job(job.Name())),
	}
}

// Start launches the task loop. A no-op if already running.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.running = true
	t.cancel = cancel
	t.done = done

	go t.loop(ctx, done)
}

// Stop cancels the loop and waits for it to exit. A no-op if not running.
func (t *Task) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the loop is active.
func (t *Task) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Info returns a point-in-time view of the task.
func (t *Task) Info() JobInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	info := JobInfo{
		Name:        t.job.Name(),
		Description: t.job.Description(),
		Schedule:    t.schedule.String(),
		Running:     t.running,
		LastRun:     t.lastRun,
		NextRun:     t.nextRun,
		RunCount:    t.runCount,
		FailCount:   t.failCount,
	}
	if t.lastErr != nil {
		info.LastError = t.lastErr.Error()
	}
	return info
}

func (t *Task) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		t.mu.Lock()
		if t.done == done {
			t.running = false
		}
		t.mu.Unlock()
	}()

	if err := t.gate.WaitUntilReady(ctx); err != nil {
		if ctx.Err() == nil {
			t.logger.Error("readiness gate failed, task not started", zap.Error(err))
		}
		return
	}

	for {
		t.tick(ctx)

		next := t.schedule.Next(t.clock.Now())
		t.mu.Lock()
		t.nextRun = next
		t.mu.Unlock()

		timer := time.NewTimer(next.Sub(t.clock.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick runs the job once, recovering panics.
func (t *Task) tick(ctx context.Context) (result JobResult) {
	startedAt := time.Now()
	result.JobName = t.job.Name()
	result.StartedAt = startedAt

	defer func() {
		if p := recover(); p != nil {
			result.Error = fmt.Errorf("job panicked: %v", p)
		}
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(startedAt)
		result.Success = result.Error == nil
		t.record(result)
	}()

	result.Error = t.job.Run(ctx)
	return result
}

func (t *Task) record(result JobResult) {
	t.mu.Lock()
	t.lastRun = result.StartedAt
	t.runCount++
	t.lastErr = result.Error
	if result.Error != nil {
		t.failCount++
	}
	t.mu.Unlock()

	if result.Error != nil {
		t.logger.Error("job failed", logger.Latency(result.Duration), zap.Error(result.Error))
		return
	}
	t.logger.Debug("job completed", logger.Latency(result.Duration))
}
