// Package scheduler enqueues maintenance jobs on a worker pool at fixed
// intervals.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	pool   Enqueuer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler
func New(ctx context.Context, pool Enqueuer) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{pool: pool, ctx: ctx, cancel: cancel}
}

// Schedule enqueues job every interval until Stop. With runNow the first run
// is enqueued immediately. A tick that finds the queue full is skipped.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job, runNow bool) {
	logger.FromContext(s.ctx).Info("Job scheduled", "job", worker.JobName(job), "interval", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runNow {
			s.pool.Enqueue(job)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.pool.Enqueue(job)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
