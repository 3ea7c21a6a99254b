package eventlog

// JSON payload field keys
const (
	PayloadKeyUserID = "user_id"
)

// Query defaults
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 200
)

// Error messages
const (
	ErrMsgUnknownEventType = "unknown event type"
)

// Log messages - service events
const (
	LogMsgEventPayloadInvalid = "Event payload could not be converted, skipping log"
	LogMsgFailedToLogEvent    = "Failed to log event to database"
	LogMsgEventLogged         = "Event logged to database"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting event log cleanup job"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)

// Log field keys - structured logging fields
const (
	LogFieldType          = "type"
	LogFieldUserID        = "user_id"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)
