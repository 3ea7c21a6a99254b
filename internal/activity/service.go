// Package activity records scored attempts at catalog activities and pays
// an activity's reward on its first passing completion.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/level"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

var (
	ErrActivityIDRequired = fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgActivityIDRequired)
	ErrNegativeTimeSpent  = fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeTimeSpent)
)

// StreakRecorder records the day's activity after a completion
type StreakRecorder interface {
	RecordActivity(ctx context.Context, userID string, activityType domain.ActivityType) (*domain.StreakResult, error)
}

// BadgeEvaluator re-checks badges after a completion
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID string) ([]domain.AwardedBadge, error)
}

// Service defines activity operations
type Service interface {
	// Complete records an attempt. The primary reward commits on its own;
	// failures after the commit are reported in SideEffects.
	Complete(ctx context.Context, userID, activityID string, score, timeSpent int) (*domain.RewardGrant, error)
}

type service struct {
	repo    repository.Store
	streaks StreakRecorder
	badges  BadgeEvaluator
	bus     event.Publisher
	loc     *time.Location
	now     func() time.Time
}

// NewService creates a new activity service. streaks and badges may be nil.
func NewService(repo repository.Store, streaks StreakRecorder, badges BadgeEvaluator, bus event.Publisher, loc *time.Location) Service {
	return &service{
		repo:    repo,
		streaks: streaks,
		badges:  badges,
		bus:     bus,
		loc:     loc,
		now:     time.Now,
	}
}

func validate(userID, activityID string, score, timeSpent int) error {
	switch {
	case userID == "":
		return domain.ErrUserIDRequired
	case activityID == "":
		return ErrActivityIDRequired
	case score < 0 || score > MaxScore:
		return domain.ErrInvalidScore
	case timeSpent < 0:
		return ErrNegativeTimeSpent
	}
	return nil
}

// completion is what the primary transaction produced
type completion struct {
	activity   *domain.Activity
	user       *domain.User
	oldLevel   int
	earn       *domain.EarnResult
	grant      *domain.RewardGrant
	firstClear bool
}

func (s *service) Complete(ctx context.Context, userID, activityID string, score, timeSpent int) (*domain.RewardGrant, error) {
	if err := validate(userID, activityID, score, timeSpent); err != nil {
		return nil, err
	}

	c, err := s.record(ctx, userID, activityID, score, timeSpent)
	if err != nil {
		return nil, err
	}
	s.runSideEffects(ctx, c)
	return c.grant, nil
}

// record runs the primary transaction
func (s *service) record(ctx context.Context, userID, activityID string, score, timeSpent int) (*completion, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	act, err := tx.GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetActivityFailed, err)
	}
	attempt, err := tx.GetAttemptForUpdate(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetAttemptFailed, err)
	}
	if attempt == nil {
		attempt = &domain.ActivityAttempt{UserID: userID, ActivityID: activityID}
	}

	attempt.Attempts++
	attempt.BestScore = max(attempt.BestScore, score)
	attempt.TimeSpentSeconds += timeSpent
	firstClear := score >= act.PassingScore && !attempt.Completed
	if firstClear {
		attempt.Completed = true
		attempt.CompletedAt = &now
	}

	c := &completion{activity: act, user: user, oldLevel: user.Level, firstClear: firstClear}
	grant := &domain.RewardGrant{
		Success:     true,
		FirstClear:  firstClear,
		Rewards:     domain.Rewards{Badges: []domain.AwardedBadge{}},
		Progression: domain.Progression{Previous: user.Experience, Current: user.Experience},
	}

	if firstClear {
		if act.DiamondReward > 0 {
			earn, err := diamond.ApplyEarn(ctx, tx, user, diamond.Request{
				UserID:      userID,
				Amount:      act.DiamondReward,
				Source:      act.Type.TransactionType(),
				Description: fmt.Sprintf(DescCompletionFmt, act.Title),
				Ref:         &domain.Reference{ID: act.ID, Type: domain.RelatedActivity},
			}, domain.DateOf(now, s.loc))
			if err != nil {
				return nil, fmt.Errorf(ErrMsgEarnFailed, err)
			}
			if earn.Applied {
				grant.Rewards.Diamonds = earn.Amount
				c.earn = earn
			} else {
				log.Info(LogMsgRewardRejected, "user_id", userID, "activity_id", act.ID, "limit", earn.Rejection.Limit)
				grant.Rejection = earn.Rejection
			}
		}

		if level.Apply(user, act.ExperienceReward) {
			grant.Rewards.LevelUp = true
			newLevel := user.Level
			grant.Rewards.NewLevel = &newLevel
		}
		grant.Rewards.Experience = act.ExperienceReward
		grant.Progression.Current = user.Experience
		grant.Progression.Earned = act.ExperienceReward

		if err := tx.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
		}
	}

	if err := tx.UpsertAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveAttemptFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	grant.Attempt = *attempt
	c.grant = grant
	if firstClear {
		log.Info(LogMsgActivityCompleted, "user_id", userID, "activity_id", act.ID, "score", score, "diamonds", grant.Rewards.Diamonds)
	} else {
		log.Debug(LogMsgAttemptRecorded, "user_id", userID, "activity_id", act.ID, "score", score, "attempts", attempt.Attempts)
	}
	return c, nil
}

// runSideEffects runs the best-effort steps that follow a committed attempt.
// A failure is logged and reported, never returned.
func (s *service) runSideEffects(ctx context.Context, c *completion) {
	g := c.grant
	userID := c.user.ID

	if s.streaks != nil {
		res, err := s.streaks.RecordActivity(ctx, userID, c.activity.Type)
		if err == nil {
			g.Streak = res
		}
		s.report(ctx, g, SideEffectStreak, err)
	}

	if !c.firstClear {
		return
	}

	if c.activity.Category != "" {
		_, err := s.repo.RefreshSkillMastery(ctx, userID, c.activity.Category)
		s.report(ctx, g, SideEffectMastery, err)
	}

	if s.badges != nil {
		awarded, err := s.badges.Evaluate(ctx, userID)
		if err == nil {
			g.Rewards.Badges = awarded
		}
		s.report(ctx, g, SideEffectBadges, err)
	}

	s.report(ctx, g, SideEffectEvents, s.publish(ctx, c))
}

func (s *service) publish(ctx context.Context, c *completion) error {
	userID := c.user.ID
	events := []event.Event{
		event.New(event.ActivityCompleted, domain.ActivityCompletedPayload{
			UserID:       userID,
			ActivityID:   c.activity.ID,
			ActivityType: c.activity.Type,
			Score:        c.grant.Attempt.BestScore,
			FirstClear:   c.firstClear,
			Timestamp:    s.now().Unix(),
		}),
	}
	if c.earn != nil {
		events = append(events, event.NewDiamondsEvent(event.DiamondsEarned, userID, c.earn.Amount, c.activity.Type.TransactionType(), c.earn.NewBalance))
	}
	if c.grant.Rewards.LevelUp {
		events = append(events, event.NewLevelUpEvent(userID, c.oldLevel, c.user.Level))
	}

	var errs []error
	for _, evt := range events {
		if err := event.Emit(ctx, s.bus, evt); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgEventsFailed, len(errs), len(events), errors.Join(errs...))
	}
	return nil
}

func (s *service) report(ctx context.Context, g *domain.RewardGrant, name string, err error) {
	effect := domain.SideEffect{Name: name, Success: err == nil}
	if err != nil {
		effect.Error = err.Error()
		logger.FromContext(ctx).Warn(LogMsgSideEffectFailed, "side_effect", name, "user_id", g.Attempt.UserID, "error", err)
	}
	g.SideEffects = append(g.SideEffects, effect)
}
