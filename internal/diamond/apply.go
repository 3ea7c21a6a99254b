package diamond

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Request describes one balance change
type Request struct {
	UserID      string
	Amount      int
	Source      domain.TransactionType
	Description string
	Ref         *domain.Reference
}

func (r Request) validate() error {
	if r.UserID == "" {
		return domain.ErrUserIDRequired
	}
	if r.Amount <= 0 || r.Amount > MaxAmount {
		return domain.ErrInvalidAmount
	}
	if !r.Source.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTransType, r.Source)
	}
	return nil
}

func (r Request) entry(amount int) ledger.Entry {
	desc := r.Description
	if desc == "" {
		desc = string(r.Source)
	}
	return ledger.Entry{UserID: r.UserID, Amount: amount, Type: r.Source, Description: desc, Ref: r.Ref}
}

// The Apply functions run inside a caller's transaction. They change user in
// memory and append the ledger row through w; the caller writes the user row
// and commits.

// ApplyEarn credits req.Amount if it fits in today's allowance. A rejected
// earn leaves user untouched and writes nothing.
func ApplyEarn(ctx context.Context, w repository.Ledger, user *domain.User, req Request, today time.Time) (*domain.EarnResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if !req.Source.Earnable() {
		return nil, fmt.Errorf("%w: %q cannot be earned", domain.ErrInvalidTransType, req.Source)
	}

	limit := DailyLimit(user.Level, user.IsPremium)
	daily := EffectiveDaily(user, today)
	if req.Amount > limit-daily {
		return &domain.EarnResult{
			Applied:        false,
			Amount:         req.Amount,
			NewBalance:     user.CurrentDiamonds,
			DailyRemaining: max(0, limit-daily),
			Rejection: &domain.Rejection{
				Reason:  domain.RejectionDailyLimit,
				Limit:   limit,
				Current: daily,
				Needed:  req.Amount,
			},
		}, nil
	}

	id, err := ledger.Record(ctx, w, req.entry(req.Amount))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecordLedgerFailed, err)
	}

	resetIfNewDay(user, today)
	user.DailyDiamonds += req.Amount
	user.CurrentDiamonds += req.Amount
	user.TotalDiamonds += req.Amount

	return &domain.EarnResult{
		Applied:        true,
		Amount:         req.Amount,
		NewBalance:     user.CurrentDiamonds,
		DailyRemaining: limit - user.DailyDiamonds,
		TransactionID:  id,
	}, nil
}

// ApplyGrant credits a system reward. Grants skip the daily limit and do not
// count toward it.
func ApplyGrant(ctx context.Context, w repository.Ledger, user *domain.User, req Request) (int64, error) {
	if err := req.validate(); err != nil {
		return 0, err
	}
	id, err := ledger.Record(ctx, w, req.entry(req.Amount))
	if err != nil {
		return 0, fmt.Errorf(ErrMsgRecordLedgerFailed, err)
	}
	user.CurrentDiamonds += req.Amount
	user.TotalDiamonds += req.Amount
	return id, nil
}

// ApplySpend debits req.Amount if the balance covers it. Lifetime and daily
// counters are never touched.
func ApplySpend(ctx context.Context, w repository.Ledger, user *domain.User, req Request) (*domain.SpendResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if !req.Source.Spendable() {
		return nil, fmt.Errorf("%w: %q cannot be spent", domain.ErrInvalidTransType, req.Source)
	}

	if user.CurrentDiamonds < req.Amount {
		return &domain.SpendResult{
			Applied:    false,
			Amount:     req.Amount,
			NewBalance: user.CurrentDiamonds,
			Rejection: &domain.Rejection{
				Reason:  domain.RejectionInsufficientBalance,
				Current: user.CurrentDiamonds,
				Needed:  req.Amount,
			},
		}, nil
	}

	id, err := ledger.Record(ctx, w, req.entry(-req.Amount))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecordLedgerFailed, err)
	}
	user.CurrentDiamonds -= req.Amount

	return &domain.SpendResult{
		Applied:       true,
		Amount:        req.Amount,
		NewBalance:    user.CurrentDiamonds,
		TransactionID: id,
	}, nil
}
