package diamond

import "math"

// Daily earn limits
const (
	BaseDailyLimit      = 300
	Level10DailyLimit   = 400
	Level25DailyLimit   = 500
	PremiumDailyBonus   = 200
	Level10Threshold    = 10
	Level25Threshold    = 25
	AdminDescriptionFmt = "Admin balance adjustment: %s"
)

// MaxAmount caps a single change and an admin balance so counters never wrap
const MaxAmount = math.MaxInt32

// Error messages
const (
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgGetUserFailed      = "failed to get user: %w"
	ErrMsgUpdateUserFailed   = "failed to update user: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgRecordLedgerFailed = "failed to record diamonds: %w"
)

// Log messages
const (
	LogMsgDiamondsEarned  = "Diamonds earned"
	LogMsgDiamondsGranted = "Diamonds granted"
	LogMsgDiamondsSpent   = "Diamonds spent"
	LogMsgEarnRejected    = "Earn rejected by daily limit"
	LogMsgSpendRejected   = "Spend rejected by balance"
	LogMsgBalanceAdjusted = "Balance adjusted by admin"
)
