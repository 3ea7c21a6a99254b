package config

import "fmt"

// Placeholder values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// MinAPIKeyLength is the shortest key that does not draw a warning
const MinAPIKeyLength = 32

// Warnings reports settings that are accepted but probably unintended.
// None of them stop the service from starting.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD is the example value, use a secure password")
	}

	switch {
	case c.APIKey == ExampleAPIKey:
		warnings = append(warnings, "API_KEY is the example value, generate one with: openssl rand -hex 32")
	case len(c.APIKey) < MinAPIKeyLength:
		warnings = append(warnings, fmt.Sprintf("API_KEY is shorter than %d characters", MinAPIKeyLength))
	}

	if c.RateLimitRPS == 0 {
		warnings = append(warnings, "RATE_LIMIT_RPS is 0, per-client rate limiting is disabled")
	}

	if c.DiscordWebhookURL == "" {
		warnings = append(warnings, "DISCORD_WEBHOOK_URL is not set, milestone and legendary announcements are disabled")
	}

	return warnings
}
