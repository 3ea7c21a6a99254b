package eventlog

import (
	"context"
	"time"
)

// Entry is one stored reward event
type Entry struct {
	ID        int64                  `json:"id"`
	Type      string                 `json:"type"`
	UserID    *string                `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Filter narrows a feed query. Zero fields match everything; results are
// newest first.
type Filter struct {
	UserID string
	Types  []string
	Since  time.Time
	Limit  int
}

// Repository stores the event feed
type Repository interface {
	LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error
	GetEvents(ctx context.Context, filter Filter) ([]Entry, error)

	// CleanupOldEvents deletes entries older than retentionDays and returns how many
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
