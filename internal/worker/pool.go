// Package worker runs background maintenance jobs on a fixed set of
// goroutines. Reward logic never runs here.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named jobs report their name in logs
type Named interface {
	Name() string
}

// JobName returns the name a job is logged under
func JobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}

// Pool represents a worker pool
type Pool struct {
	workers    int
	jobQueue   chan Job
	jobTimeout time.Duration
	wg         sync.WaitGroup
	stopOnce   sync.Once
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewPool creates a new worker pool. ctx is the parent of every job's
// context and carries the logger.
func NewPool(ctx context.Context, workers, queueSize int, jobTimeout time.Duration) *Pool {
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers:    max(workers, 1),
		jobQueue:   make(chan Job, queueSize),
		jobTimeout: jobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()

	log := logger.FromContext(ctx)
	start := time.Now()
	if err := job.Process(ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", JobName(job), "error", err)
		return
	}
	log.Debug(LogMsgWorkerJobDone, "job", JobName(job), "duration", time.Since(start))
}

// Enqueue adds a job without blocking. It returns false when the queue is
// full or the pool is stopped.
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgWorkerQueueFull, "job", JobName(job))
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		logger.FromContext(context.Background()).Info(LogMsgWorkerPoolStopped)
	})
}
