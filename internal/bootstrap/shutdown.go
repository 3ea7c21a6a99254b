package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/event"
)

// Stopper is satisfied by the HTTP server
type Stopper interface {
	Stop(ctx context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             Stopper
	Jobs               *BackgroundJobs
	ResilientPublisher *event.ResilientPublisher
	DBPool             interface{ Close() }
	LogCloser          io.Closer
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Background jobs (announcements and cleanup)
// 3. Event publisher (flush pending retries to the dead-letter file)
// 4. Database pool and log file
//
// Errors are logged and never stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Jobs != nil {
		c.Jobs.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.DBPool != nil {
		c.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)

	if c.LogCloser != nil {
		if err := c.LogCloser.Close(); err != nil {
			slog.Error(LogMsgLogFlushFailed, "error", err)
		}
	}
}
