package diamond

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
	"github.com/osse101/RewardEngine_Go/internal/testing/fakestore"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store  *fakestore.Store
	svc    *service
	clock  *clock
	events []event.Event
	mu     sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: fakestore.New(),
		clock: &clock{t: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	bus := event.NewMemoryBus()
	for _, typ := range []event.Type{event.DiamondsEarned, event.DiamondsSpent, event.BalanceAdjusted} {
		bus.Subscribe(typ, func(ctx context.Context, evt event.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, evt)
			return nil
		})
	}
	f.svc = NewService(f.store, bus, time.UTC).(*service)
	f.svc.now = f.clock.Now
	f.store.Now = f.clock.Now
	return f
}

func (f *fixture) eventTypes() []event.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]event.Type, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

func earn(userID string, amount int) Request {
	return Request{UserID: userID, Amount: amount, Source: domain.TxQuizCompletion, Description: "quiz"}
}

func requireConsistent(t *testing.T, store *fakestore.Store, userID string) {
	t.Helper()
	report, err := ledger.NewService(store).Audit(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "balance %d/%d vs ledger %d/%d",
		report.CurrentDiamonds, report.TotalDiamonds, report.LedgerSum, report.LedgerCredits)
}

func TestDailyLimit(t *testing.T) {
	tests := []struct {
		level   int
		premium bool
		want    int
	}{
		{1, false, 300},
		{9, false, 300},
		{10, false, 400},
		{24, false, 400},
		{25, false, 500},
		{1, true, 500},
		{25, true, 700},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DailyLimit(tt.level, tt.premium), "level=%d premium=%v", tt.level, tt.premium)
	}
}

func TestEarn_DailyLimitAndRollover(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("learner")

	for i := 1; i <= 6; i++ {
		res, err := f.svc.Earn(ctx, earn(user.ID, 50))
		require.NoError(t, err)
		require.True(t, res.Applied, "earn %d", i)
		assert.Equal(t, 50*i, res.NewBalance)
		assert.Equal(t, 300-50*i, res.DailyRemaining)
	}

	res, err := f.svc.Earn(ctx, earn(user.ID, 50))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	require.NotNil(t, res.Rejection)
	assert.Equal(t, domain.RejectionDailyLimit, res.Rejection.Reason)
	assert.Equal(t, 300, res.Rejection.Limit)
	assert.Equal(t, 300, res.Rejection.Current)
	assert.Equal(t, 50, res.Rejection.Needed)
	assert.ErrorIs(t, res.Rejection, domain.ErrDailyLimitExceeded)

	u := f.store.User(user.ID)
	assert.Equal(t, 300, u.CurrentDiamonds, "rejected earn applies nothing")
	assert.Equal(t, 300, u.DailyDiamonds)
	assert.Len(t, f.store.Ledger(user.ID), 6)

	f.clock.Advance(24 * time.Hour)
	res, err = f.svc.Earn(ctx, earn(user.ID, 50))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 350, res.NewBalance)
	assert.Equal(t, 250, res.DailyRemaining)

	u = f.store.User(user.ID)
	assert.Equal(t, 50, u.DailyDiamonds)
	assert.Equal(t, 350, u.TotalDiamonds)
	require.NotNil(t, u.LastDailyReset)
	assert.Equal(t, "2024-03-11", u.LastDailyReset.Format(time.DateOnly))
	requireConsistent(t, f.store, user.ID)
}

func TestEarn_ExactLimitAllowed(t *testing.T) {
	f := newFixture(t)
	user := f.store.SeedUser("exact")

	res, err := f.svc.Earn(context.Background(), earn(user.ID, 300))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Zero(t, res.DailyRemaining)

	balance, err := f.svc.GetBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, balance.CanEarn)
}

func TestEarn_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("v")

	_, err := f.svc.Earn(ctx, earn(user.ID, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Earn(ctx, earn(user.ID, -5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Earn(ctx, earn("", 5))
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)

	_, err = f.svc.Earn(ctx, Request{UserID: user.ID, Amount: 5, Source: "GIFT"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransType)

	_, err = f.svc.Earn(ctx, earn("nobody", 5))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.Empty(t, f.store.Ledger(user.ID))
}

func TestEarn_HugeAmountCannotWrapTheLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("wrap")

	res, err := f.svc.Earn(ctx, earn(user.ID, 1))
	require.NoError(t, err)
	require.True(t, res.Applied)

	_, err = f.svc.Earn(ctx, earn(user.ID, math.MaxInt))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Earn(ctx, earn(user.ID, MaxAmount+1))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	res, err = f.svc.Earn(ctx, earn(user.ID, MaxAmount))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	require.NotNil(t, res.Rejection)
	assert.Equal(t, 1, res.Rejection.Current)
	assert.Equal(t, MaxAmount, res.Rejection.Needed)

	u := f.store.User(user.ID)
	assert.Equal(t, 1, u.CurrentDiamonds)
	assert.Equal(t, 1, u.DailyDiamonds)
	assert.Len(t, f.store.Ledger(user.ID), 1)
	requireConsistent(t, f.store, user.ID)
}

func TestApplyEarn_LimitComparisonDoesNotOverflow(t *testing.T) {
	f := newFixture(t)
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	user := &domain.User{ID: "near-limit", Level: 1, DailyDiamonds: 299, LastDailyReset: &today}

	res, err := ApplyEarn(context.Background(), f.store, user, earn(user.ID, MaxAmount), today)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 1, res.DailyRemaining)
	assert.Equal(t, 299, user.DailyDiamonds)
	assert.Zero(t, user.CurrentDiamonds)
}

func TestEarnAndSpend_RestrictSources(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("sources")

	for _, src := range []domain.TransactionType{
		domain.TxDailyLogin, domain.TxStreakMilestone, domain.TxBadgeReward,
		domain.TxPackPurchase, domain.TxAdminAdjustment,
	} {
		_, err := f.svc.Earn(ctx, Request{UserID: user.ID, Amount: 5, Source: src})
		assert.ErrorIs(t, err, domain.ErrInvalidTransType, src)
	}
	for _, src := range []domain.TransactionType{domain.TxLessonCompletion, domain.TxActivityCompletion} {
		res, err := f.svc.Earn(ctx, Request{UserID: user.ID, Amount: 5, Source: src})
		require.NoError(t, err, src)
		assert.True(t, res.Applied, src)
	}

	_, err := f.svc.Spend(ctx, Request{UserID: user.ID, Amount: 5, Source: domain.TxAdminAdjustment})
	assert.ErrorIs(t, err, domain.ErrInvalidTransType)
	_, err = f.svc.Spend(ctx, Request{UserID: user.ID, Amount: 5, Source: domain.TxQuizCompletion})
	assert.ErrorIs(t, err, domain.ErrInvalidTransType)

	u := f.store.User(user.ID)
	assert.Equal(t, 10, u.CurrentDiamonds)
	assert.Len(t, f.store.Ledger(user.ID), 2)
}

func TestEarn_StorageFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("fragile")

	boom := errors.New("connection reset")
	f.store.FailOn("UpdateUser", boom)

	_, err := f.svc.Earn(ctx, earn(user.ID, 40))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.store.Ledger(user.ID), "ledger row rolled back with the balance")
	assert.Zero(t, f.store.User(user.ID).CurrentDiamonds)
	assert.Empty(t, f.eventTypes())
}

func TestEarn_ConcurrentRespectsLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("racer")

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Earn(ctx, earn(user.ID, 50))
			if assert.NoError(t, err) && res.Applied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, applied)
	assert.Equal(t, 300, f.store.User(user.ID).CurrentDiamonds)
	requireConsistent(t, f.store, user.ID)
}

func TestSpend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("spender")

	_, err := f.svc.Earn(ctx, earn(user.ID, 120))
	require.NoError(t, err)

	res, err := f.svc.Spend(ctx, Request{UserID: user.ID, Amount: 100, Source: domain.TxPackPurchase})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 20, res.NewBalance)

	res, err = f.svc.Spend(ctx, Request{UserID: user.ID, Amount: 100, Source: domain.TxPackPurchase})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	require.NotNil(t, res.Rejection)
	assert.Equal(t, domain.RejectionInsufficientBalance, res.Rejection.Reason)
	assert.Equal(t, 20, res.Rejection.Current)
	assert.Equal(t, 100, res.Rejection.Needed)
	assert.ErrorIs(t, res.Rejection, domain.ErrInsufficientFunds)

	u := f.store.User(user.ID)
	assert.Equal(t, 20, u.CurrentDiamonds)
	assert.Equal(t, 120, u.TotalDiamonds, "spending never lowers the lifetime total")
	assert.Equal(t, 120, u.DailyDiamonds, "spending never touches the daily counter")

	rows := f.store.Ledger(user.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, -100, rows[1].Amount)
	requireConsistent(t, f.store, user.ID)

	assert.Equal(t, []event.Type{event.DiamondsEarned, event.DiamondsSpent}, f.eventTypes())
}

func TestGrant_BypassesDailyLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("granted")

	_, err := f.svc.Earn(ctx, earn(user.ID, 300))
	require.NoError(t, err)

	res, err := f.svc.Grant(ctx, Request{
		UserID: user.ID, Amount: 150, Source: domain.TxStreakMilestone,
		Ref: &domain.Reference{ID: "30", Type: domain.RelatedMilestone},
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 450, res.NewBalance)
	assert.Zero(t, res.DailyRemaining)

	u := f.store.User(user.ID)
	assert.Equal(t, 300, u.DailyDiamonds, "grants do not count toward the daily counter")
	assert.Equal(t, 450, u.TotalDiamonds)
	requireConsistent(t, f.store, user.ID)
}

func TestSetBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("admin-target")

	_, err := f.svc.Earn(ctx, earn(user.ID, 100))
	require.NoError(t, err)

	res, err := f.svc.SetBalance(ctx, user.ID, 40, "refund clawback")
	require.NoError(t, err)
	assert.Equal(t, 100, res.PreviousBalance)
	assert.Equal(t, 40, res.NewBalance)
	assert.Equal(t, -60, res.Delta)
	assert.Equal(t, 100, res.TotalDiamonds, "a negative delta leaves the total alone")

	res, err = f.svc.SetBalance(ctx, user.ID, 500, "contest prize")
	require.NoError(t, err)
	assert.Equal(t, 460, res.Delta)
	assert.Equal(t, 560, res.TotalDiamonds)

	before := len(f.store.Ledger(user.ID))
	res, err = f.svc.SetBalance(ctx, user.ID, 500, "noop")
	require.NoError(t, err)
	assert.Zero(t, res.Delta)
	assert.Zero(t, res.TransactionID)
	assert.Len(t, f.store.Ledger(user.ID), before, "no row for a zero delta")

	rows := f.store.Ledger(user.ID)
	last := rows[len(rows)-1]
	assert.Equal(t, domain.TxAdminAdjustment, last.Type)
	assert.Contains(t, last.Description, "contest prize")
	requireConsistent(t, f.store, user.ID)

	_, err = f.svc.SetBalance(ctx, user.ID, -1, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidBalance)

	_, err = f.svc.SetBalance(ctx, user.ID, MaxAmount+1, "typo")
	assert.ErrorIs(t, err, domain.ErrInvalidBalance)
	assert.Equal(t, 500, f.store.User(user.ID).CurrentDiamonds)
}

func TestGetBalance_LazyReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("viewer")

	_, err := f.svc.Earn(ctx, earn(user.ID, 200))
	require.NoError(t, err)

	balance, err := f.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BalanceStatus{Current: 200, Total: 200, Daily: 200, DailyLimit: 300, CanEarn: true}, *balance)

	f.clock.Advance(30 * time.Hour)
	balance, err = f.svc.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance.Daily)
	assert.Equal(t, 200, f.store.User(user.ID).DailyDiamonds, "reads do not persist the reset")
}

func TestDailyBoundaryFollowsLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tokyo := time.FixedZone("JST", 9*3600)
	f.svc.loc = tokyo
	user := f.store.SeedUser("tz")

	// 2024-03-10 14:30 UTC is already 2024-03-10 23:30 in JST
	f.clock.t = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	_, err := f.svc.Earn(ctx, earn(user.ID, 300))
	require.NoError(t, err)

	// one hour later it is the next day in JST
	f.clock.Advance(time.Hour)
	res, err := f.svc.Earn(ctx, earn(user.ID, 10))
	require.NoError(t, err)
	assert.True(t, res.Applied)
}
