package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/scheduler"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// BackgroundJobs owns the worker pool and the scheduler feeding it
type BackgroundJobs struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
}

// StartBackgroundJobs starts the worker pool and schedules the daily event
// log cleanup. The pool also runs announcement posts.
func StartBackgroundJobs(ctx context.Context, cfg *config.Config, eventLog eventlog.Service) *BackgroundJobs {
	pool := worker.NewPool(ctx, WorkerCount, WorkerQueueSize, worker.DefaultJobTimeout)
	pool.Start()

	sched := scheduler.New(ctx, pool)
	sched.Schedule(EventLogCleanupEvery, eventlog.NewCleanupJob(eventLog, cfg.EventLogRetentionDays), true)

	slog.Info(LogMsgBackgroundJobsStarted,
		"workers", WorkerCount,
		"eventlog_retention_days", cfg.EventLogRetentionDays)

	return &BackgroundJobs{Pool: pool, Scheduler: sched}
}

// Stop halts scheduling first so nothing is queued onto a stopped pool
func (b *BackgroundJobs) Stop() {
	b.Scheduler.Stop()
	b.Pool.Stop()
}
