package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "diamonds.earned")
const (
	EventTypeDiamondsEarned    = "diamonds.earned"
	EventTypeDiamondsSpent     = "diamonds.spent"
	EventTypeBalanceAdjusted   = "diamonds.adjusted"
	EventTypePackOpened        = "pack.opened"
	EventTypeStreakMilestone   = "streak.milestone"
	EventTypeDailyLoginClaimed = "daily_login.claimed"
	EventTypeBadgeAwarded      = "badge.awarded"
	EventTypeLevelUp           = "level.up"
	EventTypeActivityCompleted = "activity.completed"
)

// DiamondsPayload is the payload for diamonds.* events
type DiamondsPayload struct {
	UserID     string          `json:"user_id"`
	Amount     int             `json:"amount"`
	Source     TransactionType `json:"source"`
	NewBalance int             `json:"new_balance"`
	Timestamp  int64           `json:"timestamp"`
}

// PackOpenedPayload is the payload for pack.opened events
type PackOpenedPayload struct {
	UserID      string         `json:"user_id"`
	Username    string         `json:"username,omitempty"`
	PackType    string         `json:"pack_type"`
	RarityCount map[Rarity]int `json:"rarity_count"`
	BestRarity  Rarity         `json:"best_rarity"`
	TotalValue  int            `json:"total_value"`
	Timestamp   int64          `json:"timestamp"`
}

// StreakMilestonePayload is the payload for streak.milestone events
type StreakMilestonePayload struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username,omitempty"`
	Days       int    `json:"days"`
	Diamonds   int    `json:"diamonds"`
	Experience int64  `json:"experience"`
	Timestamp  int64  `json:"timestamp"`
}

// DailyLoginPayload is the payload for daily_login.claimed events
type DailyLoginPayload struct {
	UserID          string `json:"user_id"`
	Day             int    `json:"day"`
	IsSpecial       bool   `json:"is_special"`
	ConsecutiveDays int    `json:"consecutive_days"`
	Timestamp       int64  `json:"timestamp"`
}

// BadgeAwardedPayload is the payload for badge.awarded events
type BadgeAwardedPayload struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	BadgeKey  string `json:"badge_key"`
	BadgeName string `json:"badge_name"`
	Timestamp int64  `json:"timestamp"`
}

// LevelUpPayload is the payload for level.up events
type LevelUpPayload struct {
	UserID    string `json:"user_id"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	Timestamp int64  `json:"timestamp"`
}

// ActivityCompletedPayload is the payload for activity.completed events
type ActivityCompletedPayload struct {
	UserID       string       `json:"user_id"`
	ActivityID   string       `json:"activity_id"`
	ActivityType ActivityType `json:"activity_type"`
	Score        int          `json:"score"`
	FirstClear   bool         `json:"first_clear"`
	Timestamp    int64        `json:"timestamp"`
}
