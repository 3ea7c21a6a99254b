package rarity

import "time"

// HistoryWindow is how many recent draws pity is computed from
const HistoryWindow = 200

// Rule cache sizing
const (
	RuleCacheSize       = 64
	DefaultRuleCacheTTL = time.Minute
)

// RateScale is the decimal places kept after normalization
const RateScale = 4

// Error messages
const (
	ErrMsgBeginTxFailed    = "failed to begin transaction: %w"
	ErrMsgCommitFailed     = "failed to commit transaction: %w"
	ErrMsgGetUserFailed    = "failed to get user: %w"
	ErrMsgGetHistoryFailed = "failed to load draw history: %w"
	ErrMsgGetRulesFailed   = "failed to load rate rules: %w"
	ErrMsgRecordDrawFailed = "failed to record draw: %w"
	ErrMsgPackTypeRequired = "pack type is required"
)

// Log messages
const (
	LogMsgHardPity    = "Hard pity triggered"
	LogMsgRarityDrawn = "Rarity drawn"
	LogMsgRulesCached = "Rate rules loaded"
	LogMsgInvalidRule = "Ignoring rate rule with invalid rarity"
)
