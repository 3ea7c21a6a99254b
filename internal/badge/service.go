// Package badge evaluates weighted badge rules against a user's metrics and
// pays each badge's reward exactly once, on the evaluation that completes it.
package badge

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/level"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Service defines badge operations
type Service interface {
	// Evaluate refreshes progress on every active badge the user has not
	// completed and returns the badges completed by this call
	Evaluate(ctx context.Context, userID string) ([]domain.AwardedBadge, error)
	List(ctx context.Context, userID string) ([]domain.BadgeProgress, error)
}

type service struct {
	repo repository.Store
	bus  event.Publisher
}

// NewService creates a new badge service
func NewService(repo repository.Store, bus event.Publisher) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) Evaluate(ctx context.Context, userID string) ([]domain.AwardedBadge, error) {
	log := logger.FromContext(ctx)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	badges, err := s.repo.GetActiveBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetBadgesFailed, err)
	}
	existing, err := s.userBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := newMetrics(s.repo, user)
	awarded := []domain.AwardedBadge{}
	for _, b := range badges {
		row, ok := existing[b.ID]
		if ok && row.IsCompleted {
			continue
		}
		if len(b.Rules) == 0 {
			log.Debug(LogMsgBadgeWithoutRule, "badge", b.Key)
			continue
		}

		progress, err := m.Progress(ctx, b)
		if err != nil {
			return nil, err
		}

		if progress >= 100 {
			award, updated, err := s.complete(ctx, userID, b)
			if err != nil {
				return nil, err
			}
			if award != nil {
				awarded = append(awarded, *award)
				m.user = updated
			}
			continue
		}

		if ok && row.Progress == progress {
			continue
		}
		ub := &domain.UserBadge{
			UserID:     userID,
			BadgeID:    b.ID,
			Progress:   progress,
			IsUnlocked: progress > 0,
		}
		if err := s.repo.UpsertBadgeProgress(ctx, ub); err != nil {
			return nil, fmt.Errorf(ErrMsgSaveProgressFailed, err)
		}
	}

	log.Debug(LogMsgBadgesEvaluated, "user_id", userID, "badges", len(badges), "awarded", len(awarded))
	return awarded, nil
}

// complete marks b completed and pays its reward in one transaction. It
// returns nil when another request completed the badge first. The rewarded
// user is returned so later badges see the new totals.
func (s *service) complete(ctx context.Context, userID string, b domain.Badge) (*domain.AwardedBadge, *domain.User, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	ub := &domain.UserBadge{UserID: userID, BadgeID: b.ID}
	transitioned, err := tx.CompleteBadge(ctx, ub)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgCompleteFailed, err)
	}
	if !transitioned {
		log.Info(LogMsgBadgeRaceLost, "user_id", userID, "badge", b.Key)
		return nil, nil, nil
	}

	if b.RewardDiamonds > 0 {
		_, err := diamond.ApplyGrant(ctx, tx, user, diamond.Request{
			UserID:      userID,
			Amount:      b.RewardDiamonds,
			Source:      domain.TxBadgeReward,
			Description: fmt.Sprintf(DescBadgeRewardFmt, b.Name),
			Ref:         &domain.Reference{ID: strconv.Itoa(b.ID), Type: domain.RelatedBadge},
		})
		if err != nil {
			return nil, nil, fmt.Errorf(ErrMsgGrantFailed, err)
		}
	}
	oldLevel := user.Level
	leveledUp := level.Apply(user, b.RewardExperience)

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	earnedAt := time.Now()
	if ub.EarnedAt != nil {
		earnedAt = *ub.EarnedAt
	}
	log.Info(LogMsgBadgeAwarded, "user_id", userID, "badge", b.Key, "diamonds", b.RewardDiamonds)

	_ = event.Emit(ctx, s.bus, event.New(event.BadgeAwarded, domain.BadgeAwardedPayload{
		UserID:    userID,
		Username:  user.Username,
		BadgeKey:  b.Key,
		BadgeName: b.Name,
		Timestamp: earnedAt.Unix(),
	}))
	if b.RewardDiamonds > 0 {
		_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsEarned, userID, b.RewardDiamonds, domain.TxBadgeReward, user.CurrentDiamonds))
	}
	if leveledUp {
		_ = event.Emit(ctx, s.bus, event.NewLevelUpEvent(userID, oldLevel, user.Level))
	}

	return &domain.AwardedBadge{
		BadgeID:          b.ID,
		Key:              b.Key,
		Name:             b.Name,
		RewardDiamonds:   b.RewardDiamonds,
		RewardExperience: b.RewardExperience,
		EarnedAt:         earnedAt,
	}, user, nil
}

func (s *service) userBadges(ctx context.Context, userID string) (map[int]domain.UserBadge, error) {
	rows, err := s.repo.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserBadgesFailed, err)
	}
	out := make(map[int]domain.UserBadge, len(rows))
	for _, ub := range rows {
		out[ub.BadgeID] = ub
	}
	return out, nil
}

// List returns every active badge with the user's stored progress
func (s *service) List(ctx context.Context, userID string) ([]domain.BadgeProgress, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	badges, err := s.repo.GetActiveBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetBadgesFailed, err)
	}
	existing, err := s.userBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BadgeProgress, 0, len(badges))
	for _, b := range badges {
		ub := existing[b.ID]
		out = append(out, domain.BadgeProgress{
			BadgeID:     b.ID,
			Key:         b.Key,
			Name:        b.Name,
			Description: b.Description,
			Progress:    ub.Progress,
			IsUnlocked:  ub.IsUnlocked,
			IsCompleted: ub.IsCompleted,
			EarnedAt:    ub.EarnedAt,
		})
	}
	return out, nil
}
