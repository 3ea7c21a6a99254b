// Package diamond keeps user balances: the spendable balance, the lifetime
// total and the daily earn counter. Every change is written together with
// its ledger row in one transaction.
package diamond

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Service defines balance operations
type Service interface {
	// Earn credits diamonds under the daily limit. A limit hit is reported in
	// the result with Applied=false, not as an error.
	Earn(ctx context.Context, req Request) (*domain.EarnResult, error)
	Spend(ctx context.Context, req Request) (*domain.SpendResult, error)
	// Grant credits a system reward outside the daily limit
	Grant(ctx context.Context, req Request) (*domain.EarnResult, error)
	SetBalance(ctx context.Context, userID string, newBalance int, reason string) (*domain.AdjustResult, error)
	GetBalance(ctx context.Context, userID string) (*domain.BalanceStatus, error)
}

type service struct {
	repo repository.Store
	bus  event.Publisher
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a new diamond service. loc decides where a day ends.
func NewService(repo repository.Store, bus event.Publisher, loc *time.Location) Service {
	return &service{
		repo: repo,
		bus:  bus,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *service) today() time.Time {
	return domain.DateOf(s.now(), s.loc)
}

// mutate runs fn on the locked user row and commits when fn reports a change
func (s *service) mutate(ctx context.Context, userID string, fn func(tx repository.Tx, user *domain.User) (bool, error)) (*domain.User, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	changed, err := fn(tx, user)
	if err != nil || !changed {
		return user, err
	}

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return user, nil
}

func (s *service) Earn(ctx context.Context, req Request) (*domain.EarnResult, error) {
	log := logger.FromContext(ctx)
	if err := req.validate(); err != nil {
		return nil, err
	}

	var result *domain.EarnResult
	_, err := s.mutate(ctx, req.UserID, func(tx repository.Tx, user *domain.User) (bool, error) {
		var err error
		result, err = ApplyEarn(ctx, tx, user, req, s.today())
		if err != nil {
			return false, err
		}
		return result.Applied, nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Applied {
		log.Info(LogMsgEarnRejected, "user_id", req.UserID, "amount", req.Amount,
			"limit", result.Rejection.Limit, "daily", result.Rejection.Current)
		return result, nil
	}

	log.Info(LogMsgDiamondsEarned, "user_id", req.UserID, "amount", req.Amount, "source", req.Source, "balance", result.NewBalance)
	_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsEarned, req.UserID, req.Amount, req.Source, result.NewBalance))
	return result, nil
}

func (s *service) Grant(ctx context.Context, req Request) (*domain.EarnResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var id int64
	user, err := s.mutate(ctx, req.UserID, func(tx repository.Tx, user *domain.User) (bool, error) {
		var err error
		id, err = ApplyGrant(ctx, tx, user, req)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgDiamondsGranted, "user_id", req.UserID, "amount", req.Amount, "source", req.Source)
	_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsEarned, req.UserID, req.Amount, req.Source, user.CurrentDiamonds))

	limit := DailyLimit(user.Level, user.IsPremium)
	return &domain.EarnResult{
		Applied:        true,
		Amount:         req.Amount,
		NewBalance:     user.CurrentDiamonds,
		DailyRemaining: max(0, limit-EffectiveDaily(user, s.today())),
		TransactionID:  id,
	}, nil
}

func (s *service) Spend(ctx context.Context, req Request) (*domain.SpendResult, error) {
	log := logger.FromContext(ctx)
	if err := req.validate(); err != nil {
		return nil, err
	}

	var result *domain.SpendResult
	_, err := s.mutate(ctx, req.UserID, func(tx repository.Tx, user *domain.User) (bool, error) {
		var err error
		result, err = ApplySpend(ctx, tx, user, req)
		if err != nil {
			return false, err
		}
		return result.Applied, nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Applied {
		log.Info(LogMsgSpendRejected, "user_id", req.UserID, "amount", req.Amount, "balance", result.NewBalance)
		return result, nil
	}

	log.Info(LogMsgDiamondsSpent, "user_id", req.UserID, "amount", req.Amount, "source", req.Source, "balance", result.NewBalance)
	_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsSpent, req.UserID, req.Amount, req.Source, result.NewBalance))
	return result, nil
}

// SetBalance overrides the spendable balance. The signed delta is logged as
// ADMIN_ADJUSTMENT and only a positive delta raises the lifetime total.
func (s *service) SetBalance(ctx context.Context, userID string, newBalance int, reason string) (*domain.AdjustResult, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if newBalance < 0 || newBalance > MaxAmount {
		return nil, domain.ErrInvalidBalance
	}

	result := &domain.AdjustResult{}
	user, err := s.mutate(ctx, userID, func(tx repository.Tx, user *domain.User) (bool, error) {
		result.PreviousBalance = user.CurrentDiamonds
		result.Delta = newBalance - user.CurrentDiamonds
		if result.Delta == 0 {
			return false, nil
		}

		id, err := ledger.Record(ctx, tx, ledger.Entry{
			UserID:      userID,
			Amount:      result.Delta,
			Type:        domain.TxAdminAdjustment,
			Description: fmt.Sprintf(AdminDescriptionFmt, reason),
		})
		if err != nil {
			return false, fmt.Errorf(ErrMsgRecordLedgerFailed, err)
		}
		result.TransactionID = id

		user.CurrentDiamonds = newBalance
		if result.Delta > 0 {
			user.TotalDiamonds += result.Delta
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result.NewBalance = user.CurrentDiamonds
	result.TotalDiamonds = user.TotalDiamonds
	if result.Delta != 0 {
		logger.FromContext(ctx).Info(LogMsgBalanceAdjusted, "user_id", userID,
			"previous", result.PreviousBalance, "new", result.NewBalance, "reason", reason)
		_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.BalanceAdjusted, userID, result.Delta, domain.TxAdminAdjustment, result.NewBalance))
	}
	return result, nil
}

// GetBalance reports balances with the daily counter as of today
func (s *service) GetBalance(ctx context.Context, userID string) (*domain.BalanceStatus, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	daily := EffectiveDaily(user, s.today())
	limit := DailyLimit(user.Level, user.IsPremium)
	return &domain.BalanceStatus{
		Current:    user.CurrentDiamonds,
		Total:      user.TotalDiamonds,
		Daily:      daily,
		DailyLimit: limit,
		CanEarn:    daily < limit,
	}, nil
}
