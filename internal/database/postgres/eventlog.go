package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RewardEngine_Go/internal/eventlog"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new PostgreSQL event log repository
func NewEventLogRepository(db *pgxpool.Pool) eventlog.Repository {
	return &eventLogRepository{db: db}
}

const eventColumns = `id, event_type, user_id::text, payload, metadata, created_at`

// LogEvent stores an event in the database
func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload, metadata map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEventPayload, err)
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalEventMetadata, err)
		}
	}

	var uid any
	if userID != nil {
		parsed, err := parseUserUUID(*userID)
		if err != nil {
			return err
		}
		uid = parsed
	}

	query := `
		INSERT INTO events (event_type, user_id, payload, metadata)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, eventType, uid, payloadJSON, metadataJSON); err != nil {
		return wrapErr(ErrMsgFailedToInsertEvent, err)
	}
	return nil
}

// GetEvents returns entries matching filter, newest first
func (r *eventLogRepository) GetEvents(ctx context.Context, filter eventlog.Filter) ([]eventlog.Entry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []interface{}{}
	next := func(clause string, arg interface{}) {
		args = append(args, arg)
		fmt.Fprintf(&queryBuilder, clause, len(args))
	}

	if filter.UserID != "" {
		userUUID, err := parseUserUUID(filter.UserID)
		if err != nil {
			return nil, err
		}
		next(" AND user_id = $%d", userUUID)
	}
	if len(filter.Types) > 0 {
		next(" AND event_type = ANY($%d)", filter.Types)
	}
	if !filter.Since.IsZero() {
		next(" AND created_at >= $%d", filter.Since)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		next(" LIMIT $%d", filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryEvents, err)
	}
	return scanEvents(rows)
}

// CleanupOldEvents removes events older than the specified number of days
func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM events
		WHERE created_at < NOW() - INTERVAL '1 day' * $1`

	result, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToCleanupEvents, err)
	}
	return result.RowsAffected(), nil
}

func scanEvents(rows pgx.Rows) ([]eventlog.Entry, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (eventlog.Entry, error) {
		var evt eventlog.Entry
		var payloadJSON, metadataJSON []byte

		if err := row.Scan(&evt.ID, &evt.Type, &evt.UserID, &payloadJSON, &metadataJSON, &evt.CreatedAt); err != nil {
			return evt, err
		}
		if err := json.Unmarshal(payloadJSON, &evt.Payload); err != nil {
			return evt, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &evt.Metadata); err != nil {
				return evt, err
			}
		}
		return evt, nil
	})
}
