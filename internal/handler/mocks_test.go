package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/user"
)

const (
	testUserID = "5b0f3c1e-8d4e-4c57-9f8a-2a1b7c9d0e11"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, username string, premium bool) (*domain.User, error) {
	args := m.Called(ctx, username, premium)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

type MockDiamondService struct{ mock.Mock }

func (m *MockDiamondService) Earn(ctx context.Context, req diamond.Request) (*domain.EarnResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarnResult), args.Error(1)
}

func (m *MockDiamondService) Spend(ctx context.Context, req diamond.Request) (*domain.SpendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendResult), args.Error(1)
}

func (m *MockDiamondService) Grant(ctx context.Context, req diamond.Request) (*domain.EarnResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarnResult), args.Error(1)
}

func (m *MockDiamondService) SetBalance(ctx context.Context, userID string, newBalance int, reason string) (*domain.AdjustResult, error) {
	args := m.Called(ctx, userID, newBalance, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdjustResult), args.Error(1)
}

func (m *MockDiamondService) GetBalance(ctx context.Context, userID string) (*domain.BalanceStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceStatus), args.Error(1)
}

type MockLedgerService struct{ mock.Mock }

func (m *MockLedgerService) History(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error) {
	args := m.Called(ctx, userID, limit)
	rows, _ := args.Get(0).([]domain.DiamondTransaction)
	return rows, args.Error(1)
}

func (m *MockLedgerService) Audit(ctx context.Context, userID string) (*domain.AuditReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditReport), args.Error(1)
}

type MockPackService struct{ mock.Mock }

func (m *MockPackService) Open(ctx context.Context, userID, packType string) (*domain.PackOpening, error) {
	args := m.Called(ctx, userID, packType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackOpening), args.Error(1)
}

func (m *MockPackService) Packs() []domain.PackDefinition {
	args := m.Called()
	return args.Get(0).([]domain.PackDefinition)
}

type MockRarityService struct{ mock.Mock }

func (m *MockRarityService) Draw(ctx context.Context, userID, packType string) (domain.Rarity, error) {
	args := m.Called(ctx, userID, packType)
	return args.Get(0).(domain.Rarity), args.Error(1)
}

func (m *MockRarityService) DrawTx(ctx context.Context, q repository.Queries, userID, packType string) (domain.Rarity, error) {
	args := m.Called(ctx, q, userID, packType)
	return args.Get(0).(domain.Rarity), args.Error(1)
}

func (m *MockRarityService) Rates(ctx context.Context, userID, packType string) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, userID, packType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSnapshot), args.Error(1)
}

func (m *MockRarityService) InvalidateRules() { m.Called() }

type MockStreakService struct{ mock.Mock }

func (m *MockStreakService) RecordActivity(ctx context.Context, userID string, activityType domain.ActivityType) (*domain.StreakResult, error) {
	args := m.Called(ctx, userID, activityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StreakResult), args.Error(1)
}

func (m *MockStreakService) Status(ctx context.Context, userID string) (*domain.StreakStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StreakStatus), args.Error(1)
}

func (m *MockStreakService) ClaimDailyLogin(ctx context.Context, userID string) (*domain.DailyLoginResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyLoginResult), args.Error(1)
}

func (m *MockStreakService) DailyLoginStatus(ctx context.Context, userID string) (*domain.DailyLoginStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyLoginStatus), args.Error(1)
}

type MockActivityService struct{ mock.Mock }

func (m *MockActivityService) Complete(ctx context.Context, userID, activityID string, score, timeSpent int) (*domain.RewardGrant, error) {
	args := m.Called(ctx, userID, activityID, score, timeSpent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RewardGrant), args.Error(1)
}

type MockBadgeService struct{ mock.Mock }

func (m *MockBadgeService) Evaluate(ctx context.Context, userID string) ([]domain.AwardedBadge, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.AwardedBadge)
	return list, args.Error(1)
}

func (m *MockBadgeService) List(ctx context.Context, userID string) ([]domain.BadgeProgress, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.BadgeProgress)
	return list, args.Error(1)
}

type MockFeedService struct{ mock.Mock }

func (m *MockFeedService) Subscribe(bus event.Bus) error {
	return m.Called(bus).Error(0)
}

func (m *MockFeedService) UserFeed(ctx context.Context, userID string, types []string, limit int) ([]eventlog.Entry, error) {
	args := m.Called(ctx, userID, types, limit)
	list, _ := args.Get(0).([]eventlog.Entry)
	return list, args.Error(1)
}

func (m *MockFeedService) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
