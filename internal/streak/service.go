// Package streak tracks consecutive active days and the 7-day daily login
// cycle. Both are keyed by calendar date in the configured location, and a
// unique (user, date) row makes a second record on the same day a no-op.
package streak

import (
	"context"
	"errors"
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

// Service defines streak and daily login operations
type Service interface {
	RecordActivity(ctx context.Context, userID string, activityType domain.ActivityType) (*domain.StreakResult, error)
	Status(ctx context.Context, userID string) (*domain.StreakStatus, error)

	// ClaimDailyLogin pays today's entry of the login table. A second claim on
	// the same day returns a *domain.Rejection error.
	ClaimDailyLogin(ctx context.Context, userID string) (*domain.DailyLoginResult, error)
	DailyLoginStatus(ctx context.Context, userID string) (*domain.DailyLoginStatus, error)
}

type service struct {
	repo repository.Store
	bus  event.Publisher
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a new streak service
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

func isYesterday(last, today time.Time) bool {
	return domain.SameDay(last, today.AddDate(0, 0, -1))
}

// Advance returns the streak after an activity today, and whether a previous
// streak was broken to get there
func Advance(current int, last *time.Time, today time.Time) (next int, broken bool) {
	switch {
	case last == nil:
		return 1, false
	case domain.SameDay(*last, today):
		return current, false
	case isYesterday(*last, today):
		return current + 1, false
	default:
		return 1, current > 0
	}
}

func (s *service) RecordActivity(ctx context.Context, userID string, activityType domain.ActivityType) (*domain.StreakResult, error) {
	log := logger.FromContext(ctx)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if activityType == "" {
		return nil, domain.ErrActivityTypeReq
	}
	today := s.today()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	current, err := tx.GetStreak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetStreakFailed, err)
	}
	var last *time.Time
	if current != nil {
		last = &current.LastActivityDate
	} else {
		current = &domain.LoginStreak{UserID: userID}
	}

	err = tx.InsertDailyActivity(ctx, userID, today, activityType)
	if errors.Is(err, domain.ErrAlreadyRecorded) {
		log.Debug(LogMsgAlreadyRecorded, "user_id", userID)
		return &domain.StreakResult{
			Streak:          current.CurrentStreak,
			LongestStreak:   current.LongestStreak,
			AlreadyRecorded: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecordActivityFailed, err)
	}

	next, broken := Advance(current.CurrentStreak, last, today)
	if broken {
		log.Info(LogMsgStreakBroken, "user_id", userID, "previous", current.CurrentStreak)
	}

	result := &domain.StreakResult{
		Streak:      next,
		IsNewRecord: next > current.LongestStreak,
		Broken:      broken,
	}
	current.CurrentStreak = next
	current.LongestStreak = max(current.LongestStreak, next)
	current.LastActivityDate = today
	current.TotalDays++
	result.LongestStreak = current.LongestStreak

	if err := tx.UpsertStreak(ctx, current); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveStreakFailed, err)
	}

	user.LoginStreak = current.CurrentStreak
	user.MaxLoginStreak = max(user.MaxLoginStreak, current.LongestStreak)
	user.LastLoginDate = &today

	oldLevel := user.Level
	if m, ok := MilestoneAt(next); ok {
		granted, err := s.grantMilestone(ctx, tx, user, m)
		if err != nil {
			return nil, err
		}
		if granted {
			result.MilestoneReward = &m
			result.LevelUp = user.Level > oldLevel
			if result.LevelUp {
				result.NewLevel = user.Level
			}
		}
	}

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Info(LogMsgActivityRecorded, "user_id", userID, "type", activityType, "streak", next, "longest", result.LongestStreak)

	if m := result.MilestoneReward; m != nil {
		_ = event.Emit(ctx, s.bus, event.New(event.StreakMilestone, domain.StreakMilestonePayload{
			UserID:     userID,
			Username:   user.Username,
			Days:       m.Days,
			Diamonds:   m.Diamonds,
			Experience: m.Experience,
			Timestamp:  s.now().Unix(),
		}))
		_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsEarned, userID, m.Diamonds, domain.TxStreakMilestone, user.CurrentDiamonds))
	}
	if result.LevelUp {
		_ = event.Emit(ctx, s.bus, event.NewLevelUpEvent(userID, oldLevel, user.Level))
	}
	return result, nil
}

// grantMilestone pays m unless the user already received it
func (s *service) grantMilestone(ctx context.Context, tx repository.Tx, user *domain.User, m domain.StreakMilestone) (bool, error) {
	log := logger.FromContext(ctx)

	granted, err := tx.InsertMilestoneGrant(ctx, user.ID, m.Days)
	if err != nil {
		return false, fmt.Errorf(ErrMsgMilestoneFailed, err)
	}
	if !granted {
		log.Info(LogMsgMilestoneRepeated, "user_id", user.ID, "days", m.Days)
		return false, nil
	}

	_, err = diamond.ApplyGrant(ctx, tx, user, diamond.Request{
		UserID:      user.ID,
		Amount:      m.Diamonds,
		Source:      domain.TxStreakMilestone,
		Description: fmt.Sprintf(DescMilestoneFmt, m.Days),
		Ref:         &domain.Reference{ID: strconv.Itoa(m.Days), Type: domain.RelatedMilestone},
	})
	if err != nil {
		return false, fmt.Errorf(ErrMsgMilestoneFailed, err)
	}
	level.Apply(user, m.Experience)

	log.Info(LogMsgMilestoneGranted, "user_id", user.ID, "days", m.Days, "diamonds", m.Diamonds)
	return true, nil
}

// Status reports the streak as of today. A streak whose last day is before
// yesterday has lapsed and reads as 0.
func (s *service) Status(ctx context.Context, userID string) (*domain.StreakStatus, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	st, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetStreakFailed, err)
	}
	grants, err := s.repo.GetMilestoneGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetMilestonesFailed, err)
	}
	achieved := make(map[int]bool, len(grants))
	for _, days := range grants {
		achieved[days] = true
	}

	status := &domain.StreakStatus{Milestones: make([]domain.MilestoneStatus, 0, len(Milestones))}
	if st != nil {
		today := s.today()
		status.CurrentStreak = st.CurrentStreak
		if !domain.SameDay(st.LastActivityDate, today) && !isYesterday(st.LastActivityDate, today) {
			status.CurrentStreak = 0
		}
		status.LongestStreak = st.LongestStreak
		status.TotalLogins = st.TotalDays
	}
	for _, m := range Milestones {
		status.Milestones = append(status.Milestones, domain.MilestoneStatus{StreakMilestone: m, Achieved: achieved[m.Days]})
	}
	status.NextMilestone = NextMilestone(status.CurrentStreak)
	return status, nil
}
