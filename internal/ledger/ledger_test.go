package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/testing/fakestore"
)

func TestRecord(t *testing.T) {
	ctx := context.Background()
	store := fakestore.New()
	user := store.SeedUser("alice")

	t.Run("credit with reference", func(t *testing.T) {
		id, err := Record(ctx, store, Entry{
			UserID:      user.ID,
			Amount:      25,
			Type:        domain.TxLessonCompletion,
			Description: "Lesson: Variables",
			Ref:         &domain.Reference{ID: "py-basics-variables", Type: domain.RelatedActivity},
		})
		require.NoError(t, err)
		assert.NotZero(t, id)

		rows := store.Ledger(user.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, 25, rows[0].Amount)
		require.NotNil(t, rows[0].RelatedID)
		assert.Equal(t, "py-basics-variables", *rows[0].RelatedID)
		assert.Equal(t, domain.RelatedActivity, *rows[0].RelatedType)
	})

	t.Run("debit without reference", func(t *testing.T) {
		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: -10, Type: domain.TxPackPurchase})
		require.NoError(t, err)
		rows := store.Ledger(user.ID)
		assert.Nil(t, rows[len(rows)-1].RelatedID)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: 0, Type: domain.TxBadgeReward})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: 5, Type: "BRIBE"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransType)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		boom := errors.New("disk full")
		store.FailOn("InsertTransaction", boom)
		defer store.FailOn("InsertTransaction", nil)

		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: 5, Type: domain.TxBadgeReward})
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	store := fakestore.New()
	user := store.SeedUser("bob")
	svc := NewService(store)

	for _, amount := range []int{10, 20, 30} {
		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: amount, Type: domain.TxQuizCompletion})
		require.NoError(t, err)
	}

	rows, err := svc.History(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 30, rows[0].Amount, "newest first")
	assert.Equal(t, 20, rows[1].Amount)

	rows, err = svc.History(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = svc.History(ctx, "", 10)
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)

	_, err = svc.History(ctx, "missing", 10)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestService_Audit(t *testing.T) {
	ctx := context.Background()
	store := fakestore.New()
	svc := NewService(store)

	t.Run("consistent", func(t *testing.T) {
		user := store.SeedUser("carol")
		for _, amount := range []int{50, -20, 30} {
			_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: amount, Type: domain.TxAdminAdjustment})
			require.NoError(t, err)
		}
		u := store.User(user.ID)
		u.CurrentDiamonds, u.TotalDiamonds = 60, 80
		store.PutUser(u)

		report, err := svc.Audit(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, 60, report.LedgerSum)
		assert.Equal(t, 80, report.LedgerCredits)
		assert.Equal(t, 3, report.Transactions)
	})

	t.Run("drifted balance", func(t *testing.T) {
		user := store.SeedUser("dave")
		_, err := Record(ctx, store, Entry{UserID: user.ID, Amount: 40, Type: domain.TxBadgeReward})
		require.NoError(t, err)
		u := store.User(user.ID)
		u.CurrentDiamonds, u.TotalDiamonds = 45, 40
		store.PutUser(u)

		report, err := svc.Audit(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, report.Consistent)
		assert.Equal(t, 45, report.CurrentDiamonds)
		assert.Equal(t, 40, report.LedgerSum)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Audit(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
