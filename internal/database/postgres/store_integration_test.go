package postgres

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
)

func createTestUser(t *testing.T, store *Store) *domain.User {
	t.Helper()
	user := &domain.User{Username: "user_" + uuid.NewString()[:8]}
	require.NoError(t, store.CreateUser(context.Background(), user))
	require.NotEmpty(t, user.ID)
	return user
}

func TestStore_UserLifecycle(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()

	user := createTestUser(t, store)
	assert.Equal(t, 1, user.Level)
	assert.Zero(t, user.CurrentDiamonds)

	dup := &domain.User{Username: user.Username}
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	today := domain.DateOf(time.Now(), time.UTC)
	user.CurrentDiamonds = 40
	user.TotalDiamonds = 50
	user.DailyDiamonds = 50
	user.LastDailyReset = &today
	user.Experience = 120
	user.Level = 2
	require.NoError(t, store.UpdateUser(ctx, user))

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.CurrentDiamonds)
	assert.Equal(t, 50, got.TotalDiamonds)
	assert.Equal(t, int64(120), got.Experience)
	require.NotNil(t, got.LastDailyReset)
	assert.True(t, domain.SameDay(today, *got.LastDailyReset))

	byName, err := store.GetUserByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = store.GetUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = store.GetUserByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_LedgerRollbackKeepsBalanceConsistent(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	locked, err := tx.GetUserForUpdate(ctx, user.ID)
	require.NoError(t, err)
	locked.CurrentDiamonds += 25
	locked.TotalDiamonds += 25
	require.NoError(t, tx.UpdateUser(ctx, locked))
	_, err = tx.InsertTransaction(ctx, &domain.DiamondTransaction{UserID: user.ID, Amount: 25, Type: domain.TxQuizCompletion})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), domain.ErrTxClosed)

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CurrentDiamonds)
	sum, credits, count, err := store.GetLedgerTotals(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
	assert.Zero(t, credits)
	assert.Zero(t, count)

	for _, amount := range []int{30, -10, 15} {
		id, err := store.InsertTransaction(ctx, &domain.DiamondTransaction{UserID: user.ID, Amount: amount, Type: domain.TxAdminAdjustment})
		require.NoError(t, err)
		assert.Positive(t, id)
	}
	sum, credits, count, err = store.GetLedgerTotals(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, sum)
	assert.Equal(t, 45, credits)
	assert.Equal(t, 3, count)

	txs, err := store.GetTransactions(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 15, txs[0].Amount)
	assert.Equal(t, -10, txs[1].Amount)
}

func TestStore_DailyActivityIsUniquePerDay(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)
	today := domain.DateOf(time.Now(), time.UTC)

	var inserted, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.InsertDailyActivity(ctx, user.ID, today, domain.ActivityLesson)
			switch {
			case err == nil:
				inserted.Add(1)
			case errors.Is(err, domain.ErrAlreadyRecorded):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inserted.Load())
	assert.Equal(t, int32(7), duplicates.Load())

	require.NoError(t, store.InsertDailyActivity(ctx, user.ID, today.AddDate(0, 0, 1), domain.ActivityQuiz))
}

func TestStore_StreakAndMilestones(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	s, err := store.GetStreak(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, s)

	today := domain.DateOf(time.Now(), time.UTC)
	require.NoError(t, store.UpsertStreak(ctx, &domain.LoginStreak{
		UserID: user.ID, CurrentStreak: 3, LongestStreak: 5, LastActivityDate: today, TotalDays: 9,
	}))
	s, err = store.GetStreak(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 5, s.LongestStreak)
	assert.True(t, domain.SameDay(today, s.LastActivityDate))

	granted, err := store.InsertMilestoneGrant(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.True(t, granted)
	granted, err = store.InsertMilestoneGrant(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.False(t, granted)

	days, err := store.GetMilestoneGrants(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, days)
}

func TestStore_DailyLoginClaims(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)
	today := domain.DateOf(time.Now(), time.UTC)

	l, err := store.GetDailyLogin(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, l)

	require.NoError(t, store.InsertDailyLoginClaim(ctx, user.ID, today, 1, 10))
	assert.ErrorIs(t, store.InsertDailyLoginClaim(ctx, user.ID, today, 1, 10), domain.ErrAlreadyRecorded)

	require.NoError(t, store.UpsertDailyLogin(ctx, &domain.UserDailyLogin{
		UserID: user.ID, ConsecutiveDays: 1, LastLoginDate: &today, TotalLogins: 1, TotalEarnedDiamonds: 10, TotalEarnedXP: 20,
	}))
	l, err = store.GetDailyLogin(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.ConsecutiveDays)
	assert.Equal(t, int64(20), l.TotalEarnedXP)
}

func TestStore_DistributionHistory(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	seq := []struct {
		pack   string
		rarity domain.Rarity
	}{
		{"basic", domain.RarityLegendary},
		{"premium", domain.RarityRare},
		{"basic", domain.RarityCommon},
	}
	for _, d := range seq {
		require.NoError(t, store.InsertDistribution(ctx, &domain.CardDistribution{UserID: user.ID, PackType: d.pack, Rarity: d.rarity}))
	}

	all, err := store.GetRecentRarities(ctx, user.ID, "", 200)
	require.NoError(t, err)
	assert.Equal(t, []domain.Rarity{domain.RarityCommon, domain.RarityRare, domain.RarityLegendary}, all)

	basic, err := store.GetRecentRarities(ctx, user.ID, "basic", 200)
	require.NoError(t, err)
	assert.Equal(t, []domain.Rarity{domain.RarityCommon, domain.RarityLegendary}, basic)

	rules, err := store.GetActiveRateRules(ctx, "premium")
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	rules, err = store.GetActiveRateRules(ctx, "basic")
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestStore_Cards(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	rare, err := store.GetCardsByRarity(ctx, domain.RarityRare)
	require.NoError(t, err)
	require.NotEmpty(t, rare)
	common, err := store.GetCardsByRarity(ctx, domain.RarityCommon)
	require.NoError(t, err)
	require.NotEmpty(t, common)

	require.NoError(t, store.AddUserCard(ctx, user.ID, rare[0].ID, 1))
	require.NoError(t, store.AddUserCard(ctx, user.ID, rare[0].ID, 1))
	require.NoError(t, store.AddUserCard(ctx, user.ID, common[0].ID, 1))

	n, err := store.CountUserCards(ctx, user.ID, domain.RarityRare, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.CountUserCards(ctx, user.ID, domain.RarityRare, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = store.CountUserCards(ctx, user.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_BadgeCompletesOnce(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	badges, err := store.GetActiveBadges(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, badges)

	var loopMaster *domain.Badge
	for i := range badges {
		if badges[i].Key == "loop_master" {
			loopMaster = &badges[i]
		}
	}
	require.NotNil(t, loopMaster)
	require.Len(t, loopMaster.Rules, 2)
	assert.Equal(t, domain.SkillMasteryCondition{Skill: "loops"}, loopMaster.Rules[0].Condition)
	assert.Equal(t, 3.0, loopMaster.Rules[0].Weight)

	ub := &domain.UserBadge{UserID: user.ID, BadgeID: loopMaster.ID, Progress: 40, IsUnlocked: true}
	require.NoError(t, store.UpsertBadgeProgress(ctx, ub))

	var transitions atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done, err := store.CompleteBadge(ctx, &domain.UserBadge{UserID: user.ID, BadgeID: loopMaster.ID})
			if err != nil {
				t.Errorf("complete badge: %v", err)
				return
			}
			if done {
				transitions.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), transitions.Load())

	before, err := store.GetUserBadges(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.NotNil(t, before[0].EarnedAt)

	// progress writes after completion must not touch the row
	require.NoError(t, store.UpsertBadgeProgress(ctx, &domain.UserBadge{UserID: user.ID, BadgeID: loopMaster.ID, Progress: 10}))
	after, err := store.GetUserBadges(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, after[0].Progress)
	assert.True(t, after[0].IsCompleted)
	assert.True(t, before[0].EarnedAt.Equal(*after[0].EarnedAt))
}

func TestStore_ActivityAttemptsAndMastery(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	_, err := store.GetActivity(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	act, err := store.GetActivity(ctx, "py-loops-for")
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityLesson, act.Type)
	assert.Equal(t, "loops", act.Category)

	attempt, err := store.GetAttemptForUpdate(ctx, user.ID, act.ID)
	require.NoError(t, err)
	assert.Nil(t, attempt)

	now := time.Now()
	require.NoError(t, store.UpsertAttempt(ctx, &domain.ActivityAttempt{
		UserID: user.ID, ActivityID: act.ID, Attempts: 1, BestScore: 90, Completed: true, TimeSpentSeconds: 60, CompletedAt: &now,
	}))
	// completed is sticky even if a caller writes false
	require.NoError(t, store.UpsertAttempt(ctx, &domain.ActivityAttempt{
		UserID: user.ID, ActivityID: act.ID, Attempts: 2, BestScore: 90, Completed: false, TimeSpentSeconds: 90,
	}))

	attempt, err = store.GetAttemptForUpdate(ctx, user.ID, act.ID)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.True(t, attempt.Completed)
	assert.Equal(t, 2, attempt.Attempts)
	assert.NotNil(t, attempt.CompletedAt)

	n, err := store.CountCompletedActivities(ctx, user.ID, domain.ActivityLesson, "loops", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.CountCompletedActivities(ctx, user.ID, domain.ActivityQuiz, "", 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	mastery, err := store.RefreshSkillMastery(ctx, user.ID, "loops")
	require.NoError(t, err)
	assert.Equal(t, 25, mastery)

	stored, err := store.GetSkillMastery(ctx, user.ID, "loops")
	require.NoError(t, err)
	assert.Equal(t, 25, stored)
}

func TestEventLogRepository(t *testing.T) {
	store := requireDB(t)
	ctx := context.Background()
	user := createTestUser(t, store)
	repo := NewEventLogRepository(testPool)

	for i := 0; i < 3; i++ {
		payload := map[string]interface{}{"user_id": user.ID, "n": float64(i)}
		require.NoError(t, repo.LogEvent(ctx, "diamonds.earned", &user.ID, payload, nil))
	}
	require.NoError(t, repo.LogEvent(ctx, "pack.opened", nil, map[string]interface{}{"pack_type": "basic"}, map[string]interface{}{"source": "test"}))

	events, err := repo.GetEvents(ctx, eventlog.Filter{UserID: user.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, float64(2), events[0].Payload["n"])

	filtered, err := repo.GetEvents(ctx, eventlog.Filter{Types: []string{"pack.opened"}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "pack.opened", filtered[0].Type)
	assert.Equal(t, "test", filtered[0].Metadata["source"])

	none, err := repo.GetEvents(ctx, eventlog.Filter{UserID: user.ID, Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, none)

	deleted, err := repo.CleanupOldEvents(ctx, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(4))
}
