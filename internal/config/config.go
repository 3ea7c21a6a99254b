package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Pity scopes accepted by PITY_SCOPE
const (
	PityScopeGlobal   = "global"
	PityScopePackType = "pack_type"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Version     string
	Environment string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBMaxConns int

	APIKey         string // API key for authentication
	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []string // X-Forwarded-For is only honoured from these addresses

	// Location decides where one calendar day ends for limits and streaks
	Location *time.Location

	PityScope        string
	PacksConfigPath  string
	PacksSchemaPath  string
	RateRuleCacheTTL time.Duration

	DiscordWebhookURL string

	EventMaxRetries       int
	EventRetryDelay       time.Duration
	EventDeadLetterPath   string
	EventLogRetentionDays int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Version:     getEnv("APP_VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", DefaultDBName),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),

		PityScope:       getEnv("PITY_SCOPE", PityScopeGlobal),
		PacksConfigPath: getEnv("PACKS_CONFIG_PATH", ConfigPathPacks),
		PacksSchemaPath: getEnv("PACKS_SCHEMA_PATH", ConfigPathPacksSchema),

		DiscordWebhookURL:   getEnv("DISCORD_WEBHOOK_URL", ""),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultDeadLetterPath),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", DefaultRateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries); err != nil {
		return nil, err
	}
	if cfg.EventLogRetentionDays, err = getEnvInt("EVENTLOG_RETENTION_DAYS", DefaultEventLogRetentionDays); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", DefaultRateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateRuleCacheTTL, err = getEnvDuration("RATE_RULE_CACHE_TTL", DefaultRateRuleCacheTTL); err != nil {
		return nil, err
	}
	if cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay); err != nil {
		return nil, err
	}

	tz := getEnv("REWARD_TIMEZONE", DefaultTimezone)
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REWARD_TIMEZONE %q: %w", tz, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no safe default
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.PityScope != PityScopeGlobal && c.PityScope != PityScopePackType {
		return fmt.Errorf("invalid PITY_SCOPE %q: expected %q or %q", c.PityScope, PityScopeGlobal, PityScopePackType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Port)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS value: %v", c.RateLimitRPS)
	}
	return nil
}

// PityScopedByPack reports whether pity history is kept per pack type
func (c *Config) PityScopedByPack() bool {
	return c.PityScope == PityScopePackType
}

// getEnv retrieves an environment variable or returns a default value.
// An empty value counts as unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma separated list, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
