// Package ledger owns the append-only diamond transaction log.
//
// Rows are written by Record inside the caller's transaction, next to the
// balance update they explain. The log is the source of truth for audits:
// a user's current balance must equal the signed sum of their rows and their
// lifetime total must equal the sum of the credits.
package ledger

import (
	"context"
	"fmt"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Entry is one ledger row before it is stored
type Entry struct {
	UserID      string
	Amount      int
	Type        domain.TransactionType
	Description string
	Ref         *domain.Reference
}

// Record appends one immutable row through w, which is normally the open
// transaction that also updates the user's balance.
func Record(ctx context.Context, w repository.Ledger, e Entry) (int64, error) {
	if e.Amount == 0 {
		return 0, domain.ErrInvalidAmount
	}
	if !e.Type.Valid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTransType, e.Type)
	}

	row := &domain.DiamondTransaction{
		UserID:      e.UserID,
		Amount:      e.Amount,
		Type:        e.Type,
		Description: e.Description,
	}
	if e.Ref != nil {
		id, typ := e.Ref.ID, e.Ref.Type
		row.RelatedID = &id
		row.RelatedType = &typ
	}

	id, err := w.InsertTransaction(ctx, row)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgRecordFailed, err)
	}
	return id, nil
}

// Repository is the storage the read side needs
type Repository interface {
	repository.User
	repository.Ledger
}

// Service exposes ledger reads
type Service interface {
	History(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error)
	Audit(ctx context.Context, userID string) (*domain.AuditReport, error)
}

type service struct {
	repo Repository
}

// NewService creates a new ledger service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// History returns the newest rows first. Out of range limits are clamped.
func (s *service) History(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	rows, err := s.repo.GetTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetHistoryFailed, err)
	}
	return rows, nil
}

// Audit recomputes the user's balances from the ledger
func (s *service) Audit(ctx context.Context, userID string) (*domain.AuditReport, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	sum, credits, count, err := s.repo.GetLedgerTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetTotalsFailed, err)
	}

	report := &domain.AuditReport{
		UserID:          userID,
		CurrentDiamonds: user.CurrentDiamonds,
		TotalDiamonds:   user.TotalDiamonds,
		LedgerSum:       sum,
		LedgerCredits:   credits,
		Transactions:    count,
		Consistent:      sum == user.CurrentDiamonds && credits == user.TotalDiamonds,
	}
	if !report.Consistent {
		logger.FromContext(ctx).Warn(LogMsgAuditMismatch,
			"user_id", userID,
			"current", user.CurrentDiamonds, "ledger_sum", sum,
			"total", user.TotalDiamonds, "ledger_credits", credits)
	}
	return report, nil
}
