package activity

// MaxScore is the highest score an attempt can report
const MaxScore = 100

// DescCompletionFmt is the ledger description of an activity reward
const DescCompletionFmt = "Completed %s"

// Side effect names reported on a grant
const (
	SideEffectStreak  = "streak"
	SideEffectMastery = "skill_mastery"
	SideEffectBadges  = "badges"
	SideEffectEvents  = "events"
)

// Error messages
const (
	ErrMsgBeginTxFailed      = "failed to begin transaction: %w"
	ErrMsgGetUserFailed      = "failed to get user: %w"
	ErrMsgGetActivityFailed  = "failed to get activity: %w"
	ErrMsgGetAttemptFailed   = "failed to get attempt: %w"
	ErrMsgSaveAttemptFailed  = "failed to save attempt: %w"
	ErrMsgEarnFailed         = "failed to credit activity reward: %w"
	ErrMsgUpdateUserFailed   = "failed to update user: %w"
	ErrMsgCommitFailed       = "failed to commit transaction: %w"
	ErrMsgEventsFailed       = "%d of %d events failed: %w"
	ErrMsgActivityIDRequired = "activity id is required"
	ErrMsgNegativeTimeSpent  = "time spent cannot be negative"
)

// Log messages
const (
	LogMsgActivityCompleted = "Activity completed"
	LogMsgAttemptRecorded   = "Activity attempt recorded"
	LogMsgRewardRejected    = "Activity reward rejected by daily limit"
	LogMsgSideEffectFailed  = "Side effect failed"
)
