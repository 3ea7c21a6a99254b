package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

var errPublisherClosed = errors.New("publisher shut down")

type retryItem struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps a Bus with a bounded retry queue and a dead-letter file.
// Publish never reports downstream handler failures to the caller.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	queue chan retryItem
	quit  chan struct{}
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewResilientPublisher creates the publisher and starts its retry worker
func NewResilientPublisher(inner Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  retryDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		quit:       make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish satisfies Publisher. Failures are queued for retry, never returned.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// PublishWithRetry publishes once inline and queues the event for retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)
	p.enqueue(retryItem{event: event, attempts: 1, lastErr: err})
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) enqueue(item retryItem) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.writeDeadLetter(item.event, item.attempts, errPublisherClosed)
		return
	}

	select {
	case p.queue <- item:
	default:
		logger.FromContext(context.Background()).Error(LogMsgRetryQueueFull, "event_type", item.event.Type)
		p.writeDeadLetter(item.event, item.attempts, item.lastErr)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()
	log := logger.FromContext(context.Background())

	for {
		select {
		case <-p.quit:
			return
		case item := <-p.queue:
			if item.attempts > p.maxRetries {
				log.Error(LogMsgEventRetryExhausted, "event_type", item.event.Type, "attempts", item.attempts)
				p.writeDeadLetter(item.event, item.attempts, item.lastErr)
				continue
			}

			timer := time.NewTimer(CalculateRetryDelay(p.baseDelay, item.attempts))
			select {
			case <-p.quit:
				timer.Stop()
				p.writeDeadLetter(item.event, item.attempts, errPublisherClosed)
				return
			case <-timer.C:
			}

			err := p.inner.Publish(context.Background(), item.event)
			if err == nil {
				log.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempts)
				continue
			}

			log.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempts, "error", err)
			item.attempts++
			item.lastErr = err
			p.requeue(item)
		}
	}
}

// requeue runs on the worker goroutine, so it must never block on a full queue
func (p *ResilientPublisher) requeue(item retryItem) {
	select {
	case p.queue <- item:
	default:
		p.writeDeadLetter(item.event, item.attempts, item.lastErr)
	}
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, lastErr error) {
	if err := p.deadLetter.Write(event, attempts, lastErr); err != nil {
		logger.FromContext(context.Background()).Error(LogMsgDeadLetterWriteFailed, "event_type", event.Type, "error", err)
	}
}

// Shutdown stops the retry worker, dead-letters anything still queued and closes the file
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.quit)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}

	drained := 0
drain:
	for {
		select {
		case item := <-p.queue:
			p.writeDeadLetter(item.event, item.attempts, errPublisherClosed)
			drained++
		default:
			break drain
		}
	}
	if drained > 0 {
		logger.FromContext(ctx).Info(LogMsgQueueDrainedShutdown, "count", drained)
	}

	return p.deadLetter.Close()
}
