package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	PgErrorCodeDeadlock        = "40P01"
)

// Query limits
const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - User Operations
const (
	ErrMsgInvalidUserID           = "invalid user id"
	ErrMsgFailedToInsertUser      = "failed to insert user"
	ErrMsgFailedToUpdateUser      = "failed to update user"
	ErrMsgFailedToGetUser         = "failed to get user"
	ErrMsgFailedToGetUserForLock  = "failed to get user for update"
	ErrMsgFailedToGetUserByName   = "failed to get user by username"
	ErrMsgFailedToScanUser        = "failed to scan user"
	ErrMsgFailedToInsertLedgerRow = "failed to insert diamond transaction"
	ErrMsgFailedToQueryLedger     = "failed to query diamond transactions"
	ErrMsgFailedToGetLedgerTotals = "failed to get ledger totals"
)

// Error Messages - Distribution Operations
const (
	ErrMsgFailedToQueryRarities       = "failed to query recent rarities"
	ErrMsgFailedToInsertDistribution  = "failed to insert card distribution"
	ErrMsgFailedToQueryRateRules      = "failed to query rate rules"
	ErrMsgFailedToQueryCards          = "failed to query cards"
	ErrMsgFailedToAddUserCard         = "failed to add user card"
	ErrMsgFailedToCountUserCards      = "failed to count user cards"
	ErrMsgFailedToInsertDailyActivity = "failed to insert daily activity"
)

// Error Messages - Streak Operations
const (
	ErrMsgFailedToGetStreak            = "failed to get streak"
	ErrMsgFailedToUpsertStreak         = "failed to upsert streak"
	ErrMsgFailedToQueryMilestones      = "failed to query milestone grants"
	ErrMsgFailedToInsertMilestone      = "failed to insert milestone grant"
	ErrMsgFailedToGetDailyLogin        = "failed to get daily login"
	ErrMsgFailedToUpsertDailyLogin     = "failed to upsert daily login"
	ErrMsgFailedToInsertDailyLoginDay  = "failed to insert daily login claim"
	ErrMsgFailedToQueryBadges          = "failed to query badges"
	ErrMsgFailedToQueryBadgeRules      = "failed to query badge rules"
	ErrMsgFailedToQueryUserBadges      = "failed to query user badges"
	ErrMsgFailedToUpsertBadgeProgress  = "failed to upsert badge progress"
	ErrMsgFailedToCompleteBadge        = "failed to complete badge"
	ErrMsgFailedToCountActivities      = "failed to count completed activities"
	ErrMsgFailedToGetSkillMastery      = "failed to get skill mastery"
	ErrMsgFailedToRefreshSkillMastery  = "failed to refresh skill mastery"
	ErrMsgFailedToGetActivity          = "failed to get activity"
	ErrMsgFailedToGetAttempt           = "failed to get activity attempt"
	ErrMsgFailedToUpsertAttempt        = "failed to upsert activity attempt"
	ErrMsgFailedToMarshalEventPayload  = "failed to marshal event payload"
	ErrMsgFailedToMarshalEventMetadata = "failed to marshal event metadata"
	ErrMsgFailedToInsertEvent          = "failed to insert event"
	ErrMsgFailedToQueryEvents          = "failed to query events"
	ErrMsgFailedToCleanupEvents        = "failed to cleanup events"
)
