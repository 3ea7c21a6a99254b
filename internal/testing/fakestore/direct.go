package fakestore

import (
	"context"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Calls outside a transaction run against the committed data.

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	v, done := s.direct()
	defer done()
	return v.CreateUser(ctx, user)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	v, done := s.direct()
	defer done()
	return v.GetUserByID(ctx, userID)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	v, done := s.direct()
	defer done()
	return v.GetUserByUsername(ctx, username)
}

func (s *Store) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	v, done := s.direct()
	defer done()
	return v.GetUserForUpdate(ctx, userID)
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	v, done := s.direct()
	defer done()
	return v.UpdateUser(ctx, user)
}

func (s *Store) InsertTransaction(ctx context.Context, t *domain.DiamondTransaction) (int64, error) {
	v, done := s.direct()
	defer done()
	return v.InsertTransaction(ctx, t)
}

func (s *Store) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error) {
	v, done := s.direct()
	defer done()
	return v.GetTransactions(ctx, userID, limit)
}

func (s *Store) GetLedgerTotals(ctx context.Context, userID string) (sum, credits, count int, err error) {
	v, done := s.direct()
	defer done()
	return v.GetLedgerTotals(ctx, userID)
}

func (s *Store) GetRecentRarities(ctx context.Context, userID, packType string, limit int) ([]domain.Rarity, error) {
	v, done := s.direct()
	defer done()
	return v.GetRecentRarities(ctx, userID, packType, limit)
}

func (s *Store) InsertDistribution(ctx context.Context, dist *domain.CardDistribution) error {
	v, done := s.direct()
	defer done()
	return v.InsertDistribution(ctx, dist)
}

func (s *Store) GetActiveRateRules(ctx context.Context, packType string) ([]domain.RateRule, error) {
	v, done := s.direct()
	defer done()
	return v.GetActiveRateRules(ctx, packType)
}

func (s *Store) GetCardsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Card, error) {
	v, done := s.direct()
	defer done()
	return v.GetCardsByRarity(ctx, rarity)
}

func (s *Store) AddUserCard(ctx context.Context, userID string, cardID, quantity int) error {
	v, done := s.direct()
	defer done()
	return v.AddUserCard(ctx, userID, cardID, quantity)
}

func (s *Store) CountUserCards(ctx context.Context, userID string, minRarity domain.Rarity, distinct bool) (int, error) {
	v, done := s.direct()
	defer done()
	return v.CountUserCards(ctx, userID, minRarity, distinct)
}

func (s *Store) InsertDailyActivity(ctx context.Context, userID string, date time.Time, activityType domain.ActivityType) error {
	v, done := s.direct()
	defer done()
	return v.InsertDailyActivity(ctx, userID, date, activityType)
}

func (s *Store) GetStreak(ctx context.Context, userID string) (*domain.LoginStreak, error) {
	v, done := s.direct()
	defer done()
	return v.GetStreak(ctx, userID)
}

func (s *Store) UpsertStreak(ctx context.Context, streak *domain.LoginStreak) error {
	v, done := s.direct()
	defer done()
	return v.UpsertStreak(ctx, streak)
}

func (s *Store) GetMilestoneGrants(ctx context.Context, userID string) ([]int, error) {
	v, done := s.direct()
	defer done()
	return v.GetMilestoneGrants(ctx, userID)
}

func (s *Store) InsertMilestoneGrant(ctx context.Context, userID string, days int) (bool, error) {
	v, done := s.direct()
	defer done()
	return v.InsertMilestoneGrant(ctx, userID, days)
}

func (s *Store) GetDailyLogin(ctx context.Context, userID string) (*domain.UserDailyLogin, error) {
	v, done := s.direct()
	defer done()
	return v.GetDailyLogin(ctx, userID)
}

func (s *Store) UpsertDailyLogin(ctx context.Context, login *domain.UserDailyLogin) error {
	v, done := s.direct()
	defer done()
	return v.UpsertDailyLogin(ctx, login)
}

func (s *Store) InsertDailyLoginClaim(ctx context.Context, userID string, date time.Time, day, diamonds int) error {
	v, done := s.direct()
	defer done()
	return v.InsertDailyLoginClaim(ctx, userID, date, day, diamonds)
}

func (s *Store) GetActiveBadges(ctx context.Context) ([]domain.Badge, error) {
	v, done := s.direct()
	defer done()
	return v.GetActiveBadges(ctx)
}

func (s *Store) GetUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	v, done := s.direct()
	defer done()
	return v.GetUserBadges(ctx, userID)
}

func (s *Store) UpsertBadgeProgress(ctx context.Context, ub *domain.UserBadge) error {
	v, done := s.direct()
	defer done()
	return v.UpsertBadgeProgress(ctx, ub)
}

func (s *Store) CompleteBadge(ctx context.Context, ub *domain.UserBadge) (bool, error) {
	v, done := s.direct()
	defer done()
	return v.CompleteBadge(ctx, ub)
}

func (s *Store) CountCompletedActivities(ctx context.Context, userID string, activityType domain.ActivityType, category string, minScore int) (int, error) {
	v, done := s.direct()
	defer done()
	return v.CountCompletedActivities(ctx, userID, activityType, category, minScore)
}

func (s *Store) GetSkillMastery(ctx context.Context, userID, skill string) (int, error) {
	v, done := s.direct()
	defer done()
	return v.GetSkillMastery(ctx, userID, skill)
}

func (s *Store) RefreshSkillMastery(ctx context.Context, userID, category string) (int, error) {
	v, done := s.direct()
	defer done()
	return v.RefreshSkillMastery(ctx, userID, category)
}

func (s *Store) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	v, done := s.direct()
	defer done()
	return v.GetActivity(ctx, activityID)
}

func (s *Store) GetAttemptForUpdate(ctx context.Context, userID, activityID string) (*domain.ActivityAttempt, error) {
	v, done := s.direct()
	defer done()
	return v.GetAttemptForUpdate(ctx, userID, activityID)
}

func (s *Store) UpsertAttempt(ctx context.Context, attempt *domain.ActivityAttempt) error {
	v, done := s.direct()
	defer done()
	return v.UpsertAttempt(ctx, attempt)
}
