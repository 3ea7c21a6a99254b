package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileName is the rotating log file inside LOG_DIR
	LogFileName = "reward-engine.log"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized   = "Logging initialized"
	LogMsgStartingRewardEngine = "Starting reward engine"
	LogMsgConfigurationLoaded  = "Configuration loaded"
	LogMsgConfigWarning        = "Configuration warning"
	LogMsgFailedCreateLogsDir  = "failed to create logs directory"
)

// =============================================================================
// Database
// =============================================================================

const (
	ErrMsgFailedConnectDatabase = "failed to connect to database"
	ErrMsgFailedMigrate         = "failed to migrate database"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Pack Catalog
// =============================================================================

const (
	LogMsgLoadingPackCatalog = "Loading pack catalog from JSON config..."
	LogMsgPackCatalogLoaded  = "Pack catalog loaded"
	ErrMsgFailedLoadPacks    = "failed to load pack catalog"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	LogMsgAnnouncerRegistered        = "Discord announcer registered"
	LogMsgAnnouncerDisabled          = "Discord announcer disabled, DISCORD_WEBHOOK_URL not set"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
	ErrMsgFailedCreateAnnouncer      = "failed to create announcer"
)

// =============================================================================
// Background Jobs
// =============================================================================

const (
	WorkerCount          = 2
	WorkerQueueSize      = 100
	EventLogCleanupEvery = 24 * time.Hour

	LogMsgBackgroundJobsStarted = "Background jobs started"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgLogFlushFailed             = "Failed to close log file"
)
