// Package scheduler runs named pipeline jobs on cron schedules and keeps the
// result of each job's most recent run.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrJobExists   = errors.New("job already registered")
	ErrJobNotFound = errors.New("job not found")
	ErrNoJobFunc   = errors.New("no job function provided")
)

// JobFunc is the unit of work executed on each tick
type JobFunc func(ctx context.Context) error

// Run describes one execution of a job
type Run struct {
	Job      string        `json:"job"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Success reports whether the run returned without error
func (r Run) Success() bool {
	return r.Error == ""
}

type job struct {
	spec string
	fn   JobFunc
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]job
	last map[string]Run
}

// New creates a scheduler evaluating standard five field cron specs in loc.
// A nil loc uses UTC.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]job),
		last:   make(map[string]Run),
	}
}

// Add registers fn under name to run on spec
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	if fn == nil {
		return fmt.Errorf("%s, %w", name, ErrNoJobFunc)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%s, %w", name, ErrJobExists)
	}
	if _, err := s.cron.AddFunc(spec, func() {
		s.run(s.ctx, name, fn) //nolint:errcheck
	}); err != nil {
		return fmt.Errorf("unable to schedule job %s with spec %q, %w", name, spec, err)
	}
	s.jobs[name] = job{spec: spec, fn: fn}
	slog.Info("job scheduled", "job", name, "schedule", spec)
	return nil
}

// Start begins evaluating schedules in the background
func (s *Scheduler) Start() {
	slog.Info("starting scheduler", "jobs", len(s.Jobs()))
	s.cron.Start()
}

// Stop halts the schedule, cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunNow executes the named job synchronously outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	j, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%s, %w", name, ErrJobNotFound)
	}
	return s.run(ctx, name, j.fn)
}

// Last returns the most recent run of the named job
func (s *Scheduler) Last(name string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.last[name]
	return r, ok
}

// Jobs returns the registered job names mapped to their schedules
func (s *Scheduler) Jobs() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.jobs))
	for name, j := range s.jobs {
		out[name] = j.spec
	}
	return out
}

func (s *Scheduler) run(ctx context.Context, name string, fn JobFunc) error {
	start := time.Now()
	slog.Info("job started", "job", name)

	err := fn(ctx)

	end := time.Now()
	r := Run{Job: name, Start: start, End: end, Duration: end.Sub(start)}
	if err != nil {
		r.Error = err.Error()
		slog.Error("job failed", "job", name, "duration", r.Duration, "error", err.Error())
	} else {
		slog.Info("job completed", "job", name, "duration", r.Duration)
	}

	s.mu.Lock()
	s.last[name] = r
	s.mu.Unlock()
	return err
}
