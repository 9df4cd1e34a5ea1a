package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	robfig "github.com/robfig/cron/v3"
)

// Job is a handler bound to a cron expression.
type Job struct {
	Name string
	Spec string
	Fn   func(ctx context.Context) error
}

// Scheduler runs registered jobs on standard five-field cron expressions in a
// fixed location.
type Scheduler struct {
	cron   *robfig.Cron
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewScheduler creates a scheduler evaluating expressions in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger := slogAdapter{}
	return &Scheduler{
		cron: robfig.New(
			robfig.WithLocation(loc),
			robfig.WithChain(robfig.Recover(logger), robfig.SkipIfStillRunning(logger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers fn under a cron expression such as "0 18 * * *".
func (s *Scheduler) AddJob(name string, spec string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := Job{Name: name, Spec: spec, Fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.executeJob(job) }); err != nil {
		return fmt.Errorf("register cron job %s: %w", name, err)
	}
	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.jobs...)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.Jobs()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	err := job.Fn(s.ctx)
	metrics.CronRuns.WithLabelValues(job.Name, metrics.Result(err)).Inc()
	metrics.CronDuration.WithLabelValues(job.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs the named job immediately, outside of its schedule.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	for _, job := range s.Jobs() {
		if job.Name == name {
			return job.Fn(ctx)
		}
	}
	return fmt.Errorf("cron job %s not registered", name)
}

type slogAdapter struct{}

func (slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
