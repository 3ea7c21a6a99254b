package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound      = "user not found"
	ErrMsgUsernameTaken     = "username already taken"
	ErrMsgUserIDRequired    = "user ID is required"
	ErrMsgActivityNotFound  = "activity not found"
	ErrMsgPackTypeNotFound  = "unknown pack type"
	ErrMsgBadgeNotFound     = "badge not found"
	ErrMsgNoCardsForRarity  = "no cards available for rarity"
	ErrMsgInvalidRuleType   = "invalid badge rule type"
	ErrMsgInvalidRarity     = "invalid rarity"
	ErrMsgInvalidAmount     = "amount must be positive"
	ErrMsgInvalidBalance    = "balance must not be negative"
	ErrMsgInvalidScore      = "score must be between 0 and 100"
	ErrMsgInvalidTransType  = "invalid transaction type"
	ErrMsgActivityTypeEmpty = "activity type is required"

	// Business rule rejections
	ErrMsgDailyLimitExceeded  = "daily diamond limit exceeded"
	ErrMsgInsufficientFunds   = "insufficient diamonds"
	ErrMsgAlreadyClaimedToday = "daily reward already claimed today"
	ErrMsgAlreadyRecorded     = "activity already recorded today"

	// Database/System errors
	ErrMsgDatabaseError    = "database error"
	ErrMsgDeadlockDetected = "deadlock detected"
	ErrMsgTxClosed         = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrUsernameTaken    = errors.New(ErrMsgUsernameTaken)
	ErrActivityNotFound = errors.New(ErrMsgActivityNotFound)
	ErrPackTypeNotFound = errors.New(ErrMsgPackTypeNotFound)
	ErrBadgeNotFound    = errors.New(ErrMsgBadgeNotFound)
	ErrNoCardsForRarity = errors.New(ErrMsgNoCardsForRarity)
	ErrInvalidRuleType  = errors.New(ErrMsgInvalidRuleType)
	ErrInvalidRarity    = errors.New(ErrMsgInvalidRarity)

	// Validation errors
	ErrInvalidInput     = errors.New(ErrMsgInvalidInput)
	ErrUserIDRequired   = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgUserIDRequired)
	ErrInvalidAmount    = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidAmount)
	ErrInvalidBalance   = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidBalance)
	ErrInvalidScore     = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidScore)
	ErrInvalidTransType = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgInvalidTransType)
	ErrActivityTypeReq  = fmt.Errorf("%w: %s", ErrInvalidInput, ErrMsgActivityTypeEmpty)

	// Business rule rejections
	ErrDailyLimitExceeded  = errors.New(ErrMsgDailyLimitExceeded)
	ErrInsufficientFunds   = errors.New(ErrMsgInsufficientFunds)
	ErrAlreadyClaimedToday = errors.New(ErrMsgAlreadyClaimedToday)

	// ErrAlreadyRecorded is returned by repositories when a (user, date) row exists.
	// Services normalize it into an "already recorded" outcome.
	ErrAlreadyRecorded = errors.New(ErrMsgAlreadyRecorded)

	// Database/System errors
	ErrDatabaseError    = errors.New(ErrMsgDatabaseError)
	ErrDeadlockDetected = errors.New(ErrMsgDeadlockDetected)
	ErrTxClosed         = errors.New(ErrMsgTxClosed)
)

// RejectionReason identifies which business rule turned a request down
type RejectionReason string

const (
	RejectionDailyLimit          RejectionReason = "daily_limit_exceeded"
	RejectionInsufficientBalance RejectionReason = "insufficient_balance"
	RejectionAlreadyClaimed      RejectionReason = "already_claimed_today"
)

// Rejection is an expected business outcome carrying enough detail for the
// caller to react (show remaining allowance, how much is missing, ...).
type Rejection struct {
	Reason  RejectionReason `json:"reason"`
	Limit   int             `json:"limit,omitempty"`
	Current int             `json:"current"`
	Needed  int             `json:"needed"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case RejectionDailyLimit:
		return fmt.Sprintf("%s: %d of %d used, %d requested", ErrMsgDailyLimitExceeded, r.Current, r.Limit, r.Needed)
	case RejectionInsufficientBalance:
		return fmt.Sprintf("%s: have %d, need %d", ErrMsgInsufficientFunds, r.Current, r.Needed)
	case RejectionAlreadyClaimed:
		return ErrMsgAlreadyClaimedToday
	default:
		return string(r.Reason)
	}
}

// Unwrap lets callers match rejections with errors.Is against the sentinels
func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case RejectionDailyLimit:
		return ErrDailyLimitExceeded
	case RejectionInsufficientBalance:
		return ErrInsufficientFunds
	case RejectionAlreadyClaimed:
		return ErrAlreadyClaimedToday
	default:
		return nil
	}
}
