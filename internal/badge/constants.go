package badge

// Error messages
const (
	ErrMsgGetUserFailed       = "failed to get user: %w"
	ErrMsgGetBadgesFailed     = "failed to get badges: %w"
	ErrMsgGetUserBadgesFailed = "failed to get user badges: %w"
	ErrMsgMetricFailed        = "failed to read %s metric for badge %s: %w"
	ErrMsgSaveProgressFailed  = "failed to save badge progress: %w"
	ErrMsgBeginTxFailed       = "failed to begin transaction: %w"
	ErrMsgCompleteFailed      = "failed to complete badge: %w"
	ErrMsgGrantFailed         = "failed to grant badge reward: %w"
	ErrMsgUpdateUserFailed    = "failed to update user: %w"
	ErrMsgCommitFailed        = "failed to commit transaction: %w"
)

// DescBadgeRewardFmt is the ledger description of a badge reward
const DescBadgeRewardFmt = "Badge earned: %s"

// Log messages
const (
	LogMsgBadgeAwarded     = "Badge awarded"
	LogMsgBadgeRaceLost    = "Badge already completed by another request"
	LogMsgBadgesEvaluated  = "Badges evaluated"
	LogMsgBadgeWithoutRule = "Badge has no rules"
)
