package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Reward engine event types
const (
	DiamondsEarned    Type = domain.EventTypeDiamondsEarned
	DiamondsSpent     Type = domain.EventTypeDiamondsSpent
	BalanceAdjusted   Type = domain.EventTypeBalanceAdjusted
	PackOpened        Type = domain.EventTypePackOpened
	StreakMilestone   Type = domain.EventTypeStreakMilestone
	DailyLoginClaimed Type = domain.EventTypeDailyLoginClaimed
	BadgeAwarded      Type = domain.EventTypeBadgeAwarded
	LevelUp           Type = domain.EventTypeLevelUp
	ActivityCompleted Type = domain.EventTypeActivityCompleted
)

// AllTypes lists every event type the engine publishes
var AllTypes = []Type{
	DiamondsEarned, DiamondsSpent, BalanceAdjusted, PackOpened, StreakMilestone,
	DailyLoginClaimed, BadgeAwarded, LevelUp, ActivityCompleted,
}

// IsKnownType reports whether t is one of AllTypes
func IsKnownType(t Type) bool {
	return slices.Contains(AllTypes, t)
}

// New builds an event at the current schema version
func New(t Type, payload interface{}) Event {
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload}
}

// NewDiamondsEvent builds a diamonds.* event
func NewDiamondsEvent(t Type, userID string, amount int, source domain.TransactionType, newBalance int) Event {
	return New(t, domain.DiamondsPayload{
		UserID:     userID,
		Amount:     amount,
		Source:     source,
		NewBalance: newBalance,
		Timestamp:  time.Now().Unix(),
	})
}

// NewLevelUpEvent builds a level.up event
func NewLevelUpEvent(userID string, oldLevel, newLevel int) Event {
	return New(LevelUp, domain.LevelUpPayload{
		UserID:    userID,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		Timestamp: time.Now().Unix(),
	})
}

// Emit publishes evt through p when p is set. A failure is logged and
// returned so callers that report side effects can surface it.
func Emit(ctx context.Context, p Publisher, evt Event) error {
	if p == nil {
		return nil
	}
	if err := p.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgEmitFailed, "event_type", evt.Type, "error", err)
		return err
	}
	return nil
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Publisher is the publish half of a Bus
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus defines the interface for an event bus
type Bus interface {
	Publisher
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
