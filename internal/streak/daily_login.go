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

func alreadyClaimed() *domain.Rejection {
	return &domain.Rejection{Reason: domain.RejectionAlreadyClaimed}
}

// previousRun is the consecutive count today's claim builds on
func previousRun(dl *domain.UserDailyLogin, today time.Time) int {
	if dl == nil || dl.LastLoginDate == nil || !isYesterday(*dl.LastLoginDate, today) {
		return 0
	}
	return dl.ConsecutiveDays
}

func claimedOn(dl *domain.UserDailyLogin, today time.Time) bool {
	return dl != nil && dl.LastLoginDate != nil && domain.SameDay(*dl.LastLoginDate, today)
}

func (s *service) ClaimDailyLogin(ctx context.Context, userID string) (*domain.DailyLoginResult, error) {
	log := logger.FromContext(ctx)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
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

	dl, err := tx.GetDailyLogin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLoginFailed, err)
	}
	if claimedOn(dl, today) {
		log.Info(LogMsgDailyLoginRepeat, "user_id", userID)
		return nil, alreadyClaimed()
	}

	prev := previousRun(dl, today)
	day := CycleDay(prev)
	reward := LoginWeek[day-1]

	result := &domain.DailyLoginResult{
		Day:        day,
		Reward:     reward,
		IsSpecial:  reward.IsSpecial,
		Diamonds:   reward.Diamonds,
		Experience: reward.Experience,
	}
	if reward.IsSpecial {
		bonus := SpecialBonus
		result.SpecialBonus = &bonus
		result.Diamonds += bonus.Diamonds
		result.Experience += bonus.Experience
	}

	err = tx.InsertDailyLoginClaim(ctx, userID, today, day, result.Diamonds)
	if errors.Is(err, domain.ErrAlreadyRecorded) {
		log.Info(LogMsgDailyLoginRepeat, "user_id", userID)
		return nil, alreadyClaimed()
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgClaimFailed, err)
	}

	if dl == nil {
		dl = &domain.UserDailyLogin{UserID: userID}
	}
	dl.ConsecutiveDays = prev + 1
	dl.LastLoginDate = &today
	dl.TotalLogins++
	dl.TotalEarnedDiamonds += result.Diamonds
	dl.TotalEarnedXP += result.Experience
	if err := tx.UpsertDailyLogin(ctx, dl); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveLoginFailed, err)
	}

	_, err = diamond.ApplyGrant(ctx, tx, user, diamond.Request{
		UserID:      userID,
		Amount:      result.Diamonds,
		Source:      domain.TxDailyLogin,
		Description: fmt.Sprintf(DescDailyLoginFmt, day),
		Ref:         &domain.Reference{ID: strconv.Itoa(day), Type: domain.RelatedLogin},
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGrantFailed, err)
	}
	oldLevel := user.Level
	result.LevelUp = level.Apply(user, result.Experience)
	if result.LevelUp {
		result.NewLevel = user.Level
	}

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	result.ConsecutiveDays = dl.ConsecutiveDays
	result.NewBalance = user.CurrentDiamonds
	log.Info(LogMsgDailyLoginClaimed, "user_id", userID, "day", day, "diamonds", result.Diamonds, "consecutive", dl.ConsecutiveDays)

	_ = event.Emit(ctx, s.bus, event.New(event.DailyLoginClaimed, domain.DailyLoginPayload{
		UserID:          userID,
		Day:             day,
		IsSpecial:       result.IsSpecial,
		ConsecutiveDays: dl.ConsecutiveDays,
		Timestamp:       s.now().Unix(),
	}))
	_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsEarned, userID, result.Diamonds, domain.TxDailyLogin, user.CurrentDiamonds))
	if result.LevelUp {
		_ = event.Emit(ctx, s.bus, event.NewLevelUpEvent(userID, oldLevel, user.Level))
	}
	return result, nil
}

// DailyLoginStatus previews the login cycle without claiming
func (s *service) DailyLoginStatus(ctx context.Context, userID string) (*domain.DailyLoginStatus, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	dl, err := s.repo.GetDailyLogin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetLoginFailed, err)
	}

	today := s.today()
	status := &domain.DailyLoginStatus{Week: append([]domain.DailyLoginReward(nil), LoginWeek[:]...)}
	if dl != nil {
		status.TotalLogins = dl.TotalLogins
	}

	if claimedOn(dl, today) {
		status.ClaimedToday = true
		status.ConsecutiveDays = dl.ConsecutiveDays
		status.NextDay = CycleDay(dl.ConsecutiveDays)
		return status, nil
	}
	status.ConsecutiveDays = previousRun(dl, today)
	status.NextDay = CycleDay(status.ConsecutiveDays)
	return status, nil
}
