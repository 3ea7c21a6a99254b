// Package user registers learners and reports their progression profile.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/level"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

var (
	ErrUsernameRequired = fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUsernameRequired)
	ErrUsernameTooLong  = fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgUsernameTooLong)
)

// Profile is a user with derived progression values
type Profile struct {
	domain.User
	DailyLimit       int   `json:"daily_limit"`
	DailyRemaining   int   `json:"daily_remaining"`
	ExperienceToNext int64 `json:"experience_to_next_level"`
}

// Service defines user operations
type Service interface {
	Register(ctx context.Context, username string, premium bool) (*domain.User, error)
	Get(ctx context.Context, userID string) (*Profile, error)
}

type service struct {
	repo repository.User
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a new user service
func NewService(repo repository.User, loc *time.Location) Service {
	return &service{repo: repo, loc: loc, now: time.Now}
}

func (s *service) Register(ctx context.Context, username string, premium bool) (*domain.User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, ErrUsernameRequired
	case len(username) > MaxUsernameLength:
		return nil, ErrUsernameTooLong
	}

	u := &domain.User{Username: username, IsPremium: premium, Level: level.MinLevel}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgUserRegistered, "user_id", u.ID, "username", u.Username, "premium", premium)
	return u, nil
}

// Get reports the stored user. The daily counter reads as 0 once its day
// has passed, without writing the reset.
func (s *service) Get(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetFailed, err)
	}

	today := domain.DateOf(s.now(), s.loc)
	limit := diamond.DailyLimit(u.Level, u.IsPremium)
	daily := diamond.EffectiveDaily(u, today)
	u.DailyDiamonds = daily
	_, toNext := level.Progress(u.Experience)

	return &Profile{
		User:             *u,
		DailyLimit:       limit,
		DailyRemaining:   max(0, limit-daily),
		ExperienceToNext: toNext,
	}, nil
}
