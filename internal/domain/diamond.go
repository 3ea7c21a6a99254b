package domain

import "time"

// TransactionType is the cause recorded on a ledger row
type TransactionType string

const (
	TxDailyLogin         TransactionType = "DAILY_LOGIN"
	TxQuizCompletion     TransactionType = "QUIZ_COMPLETION"
	TxLessonCompletion   TransactionType = "LESSON_COMPLETION"
	TxActivityCompletion TransactionType = "ACTIVITY_COMPLETION"
	TxStreakMilestone    TransactionType = "STREAK_MILESTONE"
	TxBadgeReward        TransactionType = "BADGE_REWARD"
	TxPackPurchase       TransactionType = "PACK_PURCHASE"
	TxAdminAdjustment    TransactionType = "ADMIN_ADJUSTMENT"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TxDailyLogin, TxQuizCompletion, TxLessonCompletion, TxActivityCompletion,
		TxStreakMilestone, TxBadgeReward, TxPackPurchase, TxAdminAdjustment:
		return true
	}
	return false
}

// Earnable reports whether t may be credited through the daily-limited earn
// path. Streak, badge and admin credits go through grants instead.
func (t TransactionType) Earnable() bool {
	switch t {
	case TxQuizCompletion, TxLessonCompletion, TxActivityCompletion:
		return true
	}
	return false
}

// Spendable reports whether t may debit a balance
func (t TransactionType) Spendable() bool {
	return t == TxPackPurchase
}

// Reference links a ledger row to the entity that caused it
type Reference struct {
	ID   string `json:"related_id"`
	Type string `json:"related_type"`
}

// Related types used in ledger references
const (
	RelatedActivity  = "activity"
	RelatedBadge     = "badge"
	RelatedMilestone = "streak_milestone"
	RelatedPack      = "pack"
	RelatedLogin     = "daily_login"
)

// DiamondTransaction is an immutable ledger row. Negative amounts are debits.
type DiamondTransaction struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      int             `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	RelatedID   *string         `json:"related_id,omitempty"`
	RelatedType *string         `json:"related_type,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EarnResult is the outcome of a credit subject to the daily limit
type EarnResult struct {
	Applied        bool       `json:"applied"`
	Amount         int        `json:"amount"`
	NewBalance     int        `json:"new_balance"`
	DailyRemaining int        `json:"daily_remaining"`
	TransactionID  int64      `json:"transaction_id,omitempty"`
	Rejection      *Rejection `json:"rejection,omitempty"`
}

// SpendResult is the outcome of a debit
type SpendResult struct {
	Applied       bool       `json:"applied"`
	Amount        int        `json:"amount"`
	NewBalance    int        `json:"new_balance"`
	TransactionID int64      `json:"transaction_id,omitempty"`
	Rejection     *Rejection `json:"rejection,omitempty"`
}

// AdjustResult is the outcome of an admin balance override
type AdjustResult struct {
	PreviousBalance int   `json:"previous_balance"`
	NewBalance      int   `json:"new_balance"`
	Delta           int   `json:"delta"`
	TotalDiamonds   int   `json:"total_diamonds"`
	TransactionID   int64 `json:"transaction_id,omitempty"`
}

// BalanceStatus is the balance query response
type BalanceStatus struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	Daily      int  `json:"daily"`
	DailyLimit int  `json:"dailyLimit"`
	CanEarn    bool `json:"canEarn"`
}

// AuditReport compares a user's stored counters with their ledger
type AuditReport struct {
	UserID          string `json:"user_id"`
	CurrentDiamonds int    `json:"current_diamonds"`
	TotalDiamonds   int    `json:"total_diamonds"`
	LedgerSum       int    `json:"ledger_sum"`
	LedgerCredits   int    `json:"ledger_credits"`
	Transactions    int    `json:"transactions"`
	Consistent      bool   `json:"consistent"`
}
