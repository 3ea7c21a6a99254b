package repository

import (
	"context"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetUserForUpdate locks the user row until the enclosing transaction ends.
	// Outside a transaction it behaves like GetUserByID.
	GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error)

	// UpdateUser writes every mutable counter of the user row
	UpdateUser(ctx context.Context, user *domain.User) error
}

// Ledger defines the append-only diamond transaction log
type Ledger interface {
	InsertTransaction(ctx context.Context, tx *domain.DiamondTransaction) (int64, error)
	GetTransactions(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error)

	// GetLedgerTotals returns the signed sum, the sum of credits and the row count
	GetLedgerTotals(ctx context.Context, userID string) (sum, credits, count int, err error)
}

// Distribution defines the card distribution log and rate rules
type Distribution interface {
	// GetRecentRarities returns up to limit rarities, newest first.
	// An empty packType reads across every pack type.
	GetRecentRarities(ctx context.Context, userID, packType string, limit int) ([]domain.Rarity, error)
	InsertDistribution(ctx context.Context, dist *domain.CardDistribution) error
	GetActiveRateRules(ctx context.Context, packType string) ([]domain.RateRule, error)
}

// Card defines the card catalog and user collections
type Card interface {
	GetCardsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Card, error)
	AddUserCard(ctx context.Context, userID string, cardID, quantity int) error
	CountUserCards(ctx context.Context, userID string, minRarity domain.Rarity, distinct bool) (int, error)
}

// Streak defines the daily activity records and the streak singleton.
// Get methods return (nil, nil) when the user has no row yet.
type Streak interface {
	// InsertDailyActivity returns domain.ErrAlreadyRecorded if the (user, date) row exists
	InsertDailyActivity(ctx context.Context, userID string, date time.Time, activityType domain.ActivityType) error
	GetStreak(ctx context.Context, userID string) (*domain.LoginStreak, error)
	UpsertStreak(ctx context.Context, streak *domain.LoginStreak) error
	GetMilestoneGrants(ctx context.Context, userID string) ([]int, error)

	// InsertMilestoneGrant reports false if the milestone was granted before
	InsertMilestoneGrant(ctx context.Context, userID string, days int) (bool, error)
}

// DailyLogin defines the 7-day login cycle storage
type DailyLogin interface {
	GetDailyLogin(ctx context.Context, userID string) (*domain.UserDailyLogin, error)
	UpsertDailyLogin(ctx context.Context, login *domain.UserDailyLogin) error

	// InsertDailyLoginClaim returns domain.ErrAlreadyRecorded if the (user, date) row exists
	InsertDailyLoginClaim(ctx context.Context, userID string, date time.Time, day, diamonds int) error
}

// Badge defines badge definitions and user progress
type Badge interface {
	GetActiveBadges(ctx context.Context) ([]domain.Badge, error)
	GetUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error)

	// UpsertBadgeProgress never touches a completed row
	UpsertBadgeProgress(ctx context.Context, ub *domain.UserBadge) error

	// CompleteBadge flips is_completed once and reports whether this call did it
	CompleteBadge(ctx context.Context, ub *domain.UserBadge) (bool, error)
}

// Metrics defines the aggregates badge rules are evaluated against
type Metrics interface {
	CountCompletedActivities(ctx context.Context, userID string, activityType domain.ActivityType, category string, minScore int) (int, error)
	GetSkillMastery(ctx context.Context, userID, skill string) (int, error)

	// RefreshSkillMastery recomputes and stores the mastery percentage for a category
	RefreshSkillMastery(ctx context.Context, userID, category string) (int, error)
}

// Activity defines the activity catalog and per-user attempts
type Activity interface {
	GetActivity(ctx context.Context, activityID string) (*domain.Activity, error)

	// GetAttemptForUpdate returns (nil, nil) before the first attempt
	GetAttemptForUpdate(ctx context.Context, userID, activityID string) (*domain.ActivityAttempt, error)
	UpsertAttempt(ctx context.Context, attempt *domain.ActivityAttempt) error
}
