package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics. A payload that cannot be
// decoded only counts toward events_published_total.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadInvalid, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.DiamondsEarned:
		p, err := event.DecodePayload[domain.DiamondsPayload](evt.Payload)
		if err != nil {
			return err
		}
		DiamondsEarned.WithLabelValues(string(p.Source)).Add(float64(p.Amount))

	case event.DiamondsSpent:
		p, err := event.DecodePayload[domain.DiamondsPayload](evt.Payload)
		if err != nil {
			return err
		}
		DiamondsSpent.WithLabelValues(string(p.Source)).Add(float64(p.Amount))

	case event.BalanceAdjusted:
		BalanceAdjustments.Inc()

	case event.PackOpened:
		p, err := event.DecodePayload[domain.PackOpenedPayload](evt.Payload)
		if err != nil {
			return err
		}
		PacksOpened.WithLabelValues(p.PackType).Inc()
		for rarity, n := range p.RarityCount {
			if n > 0 {
				CardsDrawn.WithLabelValues(string(rarity)).Add(float64(n))
			}
		}

	case event.StreakMilestone:
		p, err := event.DecodePayload[domain.StreakMilestonePayload](evt.Payload)
		if err != nil {
			return err
		}
		StreakMilestones.WithLabelValues(strconv.Itoa(p.Days)).Inc()

	case event.DailyLoginClaimed:
		p, err := event.DecodePayload[domain.DailyLoginPayload](evt.Payload)
		if err != nil {
			return err
		}
		DailyLoginClaims.WithLabelValues(strconv.Itoa(p.Day)).Inc()

	case event.BadgeAwarded:
		p, err := event.DecodePayload[domain.BadgeAwardedPayload](evt.Payload)
		if err != nil {
			return err
		}
		BadgesAwarded.WithLabelValues(p.BadgeKey).Inc()

	case event.LevelUp:
		LevelUps.Inc()

	case event.ActivityCompleted:
		p, err := event.DecodePayload[domain.ActivityCompletedPayload](evt.Payload)
		if err != nil {
			return err
		}
		ActivitiesCompleted.WithLabelValues(string(p.ActivityType), strconv.FormatBool(p.FirstClear)).Inc()
	}
	return nil
}
