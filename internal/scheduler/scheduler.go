package scheduler

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context)

// Scheduler runs a job immediately on start and then waits a full interval
// after each run finishes before starting the next one.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	job       Job
	stopped   atomic.Bool
}

// New creates a new Scheduler.
func New(interval time.Duration, job Job) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		job:       job,
	}
}

// Start schedules the first run and starts the underlying scheduler. ctx is
// passed to every run; cancel it to abort a run in flight and stop further
// runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	if err := s.schedule(ctx, false); err != nil {
		return err
	}

	log.Printf("INFO: scheduler: polling every %s", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// schedule registers a single run. The following run is registered only
// after this one returns.
func (s *Scheduler) schedule(ctx context.Context, wait bool) error {
	registered := make(chan *gocron.Job, 1)
	var ran atomic.Bool

	chain := s.scheduler.Every(s.interval)
	if wait {
		chain = chain.WaitForSchedule()
	}
	job, err := chain.LimitRunsTo(1).Do(func() {
		if !ran.CompareAndSwap(false, true) {
			return
		}
		defer s.scheduler.RemoveByReference(<-registered)

		if ctx.Err() != nil {
			return
		}
		s.job(ctx)

		if ctx.Err() != nil || s.stopped.Load() {
			return
		}
		if err := s.schedule(ctx, true); err != nil {
			log.Printf("ERROR: scheduler: failed to schedule next run: %v", err)
		}
	})
	if err != nil {
		return err
	}
	registered <- job
	return nil
}

// Stop stops the scheduler and cancels any future runs. It waits for a run
// in flight to return.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
