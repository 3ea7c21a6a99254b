package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/announce"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus        event.Bus
	EventLogService eventlog.Service
	Jobs            announce.Enqueuer
	Config          *config.Config

	// Sender overrides the Discord session, for tests
	Sender announce.Sender
}

// RegisterEventHandlers subscribes the metrics collector, the event logger
// and, when a webhook is configured, the Discord announcer.
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	if deps.Config.DiscordWebhookURL == "" {
		slog.Info(LogMsgAnnouncerDisabled)
		return nil
	}

	sender := deps.Sender
	if sender == nil {
		session, err := announce.NewSession()
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedCreateAnnouncer, err)
		}
		sender = session
	}
	announcer, err := announce.New(sender, deps.Jobs, deps.Config.DiscordWebhookURL)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedCreateAnnouncer, err)
	}
	announcer.Register(deps.EventBus)
	slog.Info(LogMsgAnnouncerRegistered)

	return nil
}
