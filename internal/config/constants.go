package config

import "time"

const (
	// Configuration file paths
	ConfigPathPacks       = "configs/packs.json"
	ConfigPathPacksSchema = "configs/schemas/packs.schema.json"
)

// Defaults applied when the variable is unset
const (
	DefaultPort                  = 8080
	DefaultVersion               = "dev"
	DefaultEnvironment           = "dev"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultLogDir                = "logs"
	DefaultDBName                = "rewards"
	DefaultDBMaxConns            = 20
	DefaultRateLimitRPS          = 20.0
	DefaultRateLimitBurst        = 40
	DefaultTimezone              = "UTC"
	DefaultRateRuleCacheTTL      = time.Minute
	DefaultEventMaxRetries       = 5
	DefaultEventRetryDelay       = 2 * time.Second
	DefaultDeadLetterPath        = "logs/event_deadletter.jsonl"
	DefaultEventLogRetentionDays = 90
)
