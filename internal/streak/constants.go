package streak

// Error messages
const (
	ErrMsgBeginTxFailed        = "failed to begin transaction: %w"
	ErrMsgCommitFailed         = "failed to commit transaction: %w"
	ErrMsgGetUserFailed        = "failed to get user: %w"
	ErrMsgUpdateUserFailed     = "failed to update user: %w"
	ErrMsgRecordActivityFailed = "failed to record daily activity: %w"
	ErrMsgGetStreakFailed      = "failed to get streak: %w"
	ErrMsgSaveStreakFailed     = "failed to save streak: %w"
	ErrMsgMilestoneFailed      = "failed to grant milestone: %w"
	ErrMsgGetMilestonesFailed  = "failed to get milestone grants: %w"
	ErrMsgGetLoginFailed       = "failed to get daily login: %w"
	ErrMsgSaveLoginFailed      = "failed to save daily login: %w"
	ErrMsgClaimFailed          = "failed to record daily login claim: %w"
	ErrMsgGrantFailed          = "failed to grant reward: %w"
)

// Ledger descriptions
const (
	DescMilestoneFmt  = "%d-day streak milestone"
	DescDailyLoginFmt = "Daily login day %d"
)

// Log messages
const (
	LogMsgActivityRecorded  = "Streak activity recorded"
	LogMsgAlreadyRecorded   = "Streak activity already recorded today"
	LogMsgStreakBroken      = "Streak broken"
	LogMsgMilestoneGranted  = "Streak milestone granted"
	LogMsgMilestoneRepeated = "Streak milestone already granted"
	LogMsgDailyLoginClaimed = "Daily login claimed"
	LogMsgDailyLoginRepeat  = "Daily login already claimed today"
)
