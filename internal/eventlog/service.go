package eventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// Service handles event logging business logic
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// UserFeed returns the newest logged events of one user, optionally
	// only those of the given types
	UserFeed(ctx context.Context, userID string, types []string, limit int) ([]Entry, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	return nil
}

// handleEvent processes and logs events to the database
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := toMap(evt.Payload)
	if err != nil || payload == nil {
		log.Debug(LogMsgEventPayloadInvalid, LogFieldType, evt.Type, LogFieldError, err)
		return nil
	}

	var userID *string
	if uid, ok := payload[PayloadKeyUserID].(string); ok && uid != "" {
		userID = &uid
	}

	metadata, _ := toMap(evt.Metadata)

	if err := s.repo.LogEvent(ctx, string(evt.Type), userID, payload, metadata); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldUserID, userID)
	return nil
}

func (s *service) UserFeed(ctx context.Context, userID string, types []string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = DefaultQueryLimit
	}
	for _, t := range types {
		if !event.IsKnownType(event.Type(t)) {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownEventType, t)
		}
	}

	entries, err := s.repo.GetEvents(ctx, Filter{UserID: userID, Types: types, Limit: limit})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}

// toMap converts typed payloads into the generic shape stored in JSONB
func toMap(v interface{}) (map[string]interface{}, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return t, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
