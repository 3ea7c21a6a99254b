// Package rarity draws card rarities with pity.
//
// Each draw reads the user's last HistoryWindow draws, newest first, and
// counts the draws since the last RARE, EPIC and LEGENDARY (or better). A
// counter at its hard threshold guarantees the tier. Otherwise the base rates,
// overridden by the pack's custom rules and raised by soft pity, are
// normalized to 100 and rolled. Every result is appended to the draw log.
package rarity

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/utils"
)

// ErrPackTypeRequired is returned for an empty pack type
var ErrPackTypeRequired = fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgPackTypeRequired)

// Service defines rarity operations
type Service interface {
	// Draw locks the user, draws one rarity and logs it in its own transaction
	Draw(ctx context.Context, userID, packType string) (domain.Rarity, error)
	// DrawTx draws inside the caller's transaction. Earlier draws in the same
	// transaction count toward pity.
	DrawTx(ctx context.Context, q repository.Queries, userID, packType string) (domain.Rarity, error)
	// Rates reports the odds of the next draw without drawing
	Rates(ctx context.Context, userID, packType string) (*domain.RateSnapshot, error)
	// InvalidateRules forgets cached custom rules
	InvalidateRules()
}

type service struct {
	repo        repository.Store
	scopeByPack bool
	rules       *ruleCache
	rnd         func() float64
}

// NewService creates a rarity service. scopeByPack keeps a separate pity
// history per pack type instead of one per user.
func NewService(repo repository.Store, scopeByPack bool, ruleTTL time.Duration) Service {
	if ruleTTL <= 0 {
		ruleTTL = DefaultRuleCacheTTL
	}
	return &service{
		repo:        repo,
		scopeByPack: scopeByPack,
		rules:       newRuleCache(RuleCacheSize, ruleTTL),
		rnd:         utils.RandomFloat,
	}
}

func (s *service) historyScope(packType string) string {
	if s.scopeByPack {
		return packType
	}
	return ""
}

func (s *service) Draw(ctx context.Context, userID, packType string) (domain.Rarity, error) {
	if err := validate(userID, packType); err != nil {
		return "", err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
		return "", fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	r, err := s.DrawTx(ctx, tx, userID, packType)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return r, nil
}

func (s *service) DrawTx(ctx context.Context, q repository.Queries, userID, packType string) (domain.Rarity, error) {
	log := logger.FromContext(ctx)
	if err := validate(userID, packType); err != nil {
		return "", err
	}

	pity, err := s.pity(ctx, q, userID, packType)
	if err != nil {
		return "", err
	}

	result, guaranteed := HardPity(pity)
	if guaranteed {
		log.Info(LogMsgHardPity, "user_id", userID, "pack_type", packType, "rarity", result,
			"since_rare", pity.SinceRare, "since_epic", pity.SinceEpic, "since_legendary", pity.SinceLegendary)
	} else {
		rates, err := s.effectiveRates(ctx, packType, pity)
		if err != nil {
			return "", err
		}
		result = Pick(rates, s.rnd())
	}

	err = q.InsertDistribution(ctx, &domain.CardDistribution{
		UserID:   userID,
		PackType: packType,
		Rarity:   result,
	})
	if err != nil {
		return "", fmt.Errorf(ErrMsgRecordDrawFailed, err)
	}

	log.Debug(LogMsgRarityDrawn, "user_id", userID, "pack_type", packType, "rarity", result)
	return result, nil
}

func (s *service) Rates(ctx context.Context, userID, packType string) (*domain.RateSnapshot, error) {
	if err := validate(userID, packType); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	pity, err := s.pity(ctx, s.repo, userID, packType)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.RateSnapshot{PackType: packType, Pity: pity}
	if r, ok := HardPity(pity); ok {
		snapshot.Guaranteed = &r
		rates := Rates{}
		for _, tier := range domain.Rarities {
			rates[tier] = decimal.Zero
		}
		rates[r] = hundred
		snapshot.Rates = rates.Floats()
		return snapshot, nil
	}

	rates, err := s.effectiveRates(ctx, packType, pity)
	if err != nil {
		return nil, err
	}
	snapshot.Rates = rates.Floats()
	return snapshot, nil
}

func (s *service) InvalidateRules() {
	s.rules.Clear()
}

func (s *service) pity(ctx context.Context, q repository.Distribution, userID, packType string) (domain.PityCounters, error) {
	recent, err := q.GetRecentRarities(ctx, userID, s.historyScope(packType), HistoryWindow)
	if err != nil {
		return domain.PityCounters{}, fmt.Errorf(ErrMsgGetHistoryFailed, err)
	}
	return ComputePity(recent), nil
}

func (s *service) effectiveRates(ctx context.Context, packType string, pity domain.PityCounters) (Rates, error) {
	rules, err := s.loadRules(ctx, packType)
	if err != nil {
		return nil, err
	}
	return Normalize(WithSoftPity(WithRules(BaseRates(), rules), pity)), nil
}

func (s *service) loadRules(ctx context.Context, packType string) ([]domain.RateRule, error) {
	if rules, ok := s.rules.Get(packType); ok {
		return rules, nil
	}

	rules, err := s.repo.GetActiveRateRules(ctx, packType)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetRulesFailed, err)
	}

	valid := make([]domain.RateRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Rarity.Rank() < 0 {
			logger.FromContext(ctx).Warn(LogMsgInvalidRule, "pack_type", packType, "rarity", rule.Rarity)
			continue
		}
		valid = append(valid, rule)
	}

	s.rules.Set(packType, valid)
	logger.FromContext(ctx).Debug(LogMsgRulesCached, "pack_type", packType, "count", len(valid))
	return valid, nil
}

func validate(userID, packType string) error {
	if userID == "" {
		return domain.ErrUserIDRequired
	}
	if packType == "" {
		return ErrPackTypeRequired
	}
	return nil
}
