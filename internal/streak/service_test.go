package streak

import (
	"context"
	"errors"
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

var day0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store  *fakestore.Store
	svc    *service
	now    time.Time
	mu     sync.Mutex
	types  []event.Type
	events []event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: fakestore.New(), now: day0}
	bus := event.NewMemoryBus()
	for _, typ := range event.AllTypes {
		bus.Subscribe(typ, func(ctx context.Context, evt event.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.types = append(f.types, evt.Type)
			f.events = append(f.events, evt)
			return nil
		})
	}
	f.svc = NewService(f.store, bus, time.UTC).(*service)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) onDay(n int) {
	f.now = day0.AddDate(0, 0, n)
}

func (f *fixture) record(t *testing.T, userID string) *domain.StreakResult {
	t.Helper()
	res, err := f.svc.RecordActivity(context.Background(), userID, domain.ActivityLesson)
	require.NoError(t, err)
	return res
}

func (f *fixture) payload(typ event.Type) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Type == typ {
			return e.Payload
		}
	}
	return nil
}

func date(n int) time.Time {
	return domain.DateOf(day0.AddDate(0, 0, n), time.UTC)
}

func TestAdvance(t *testing.T) {
	today := date(10)
	yesterday := date(9)
	older := date(7)

	next, broken := Advance(0, nil, today)
	assert.Equal(t, 1, next)
	assert.False(t, broken)

	next, broken = Advance(4, &yesterday, today)
	assert.Equal(t, 5, next)
	assert.False(t, broken)

	next, broken = Advance(4, &today, today)
	assert.Equal(t, 4, next)
	assert.False(t, broken)

	next, broken = Advance(4, &older, today)
	assert.Equal(t, 1, next)
	assert.True(t, broken)
}

func TestRecordActivity_Continuity(t *testing.T) {
	f := newFixture(t)
	user := f.store.SeedUser("steady")

	res := f.record(t, user.ID)
	assert.Equal(t, 1, res.Streak)
	assert.True(t, res.IsNewRecord)
	assert.False(t, res.Broken)

	f.onDay(1)
	res = f.record(t, user.ID)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, 2, res.LongestStreak)

	res = f.record(t, user.ID)
	assert.True(t, res.AlreadyRecorded, "same day is a no-op")
	assert.Equal(t, 2, res.Streak)

	f.onDay(4)
	res = f.record(t, user.ID)
	assert.Equal(t, 1, res.Streak)
	assert.True(t, res.Broken)
	assert.False(t, res.IsNewRecord)
	assert.Equal(t, 2, res.LongestStreak)

	u := f.store.User(user.ID)
	assert.Equal(t, 1, u.LoginStreak)
	assert.Equal(t, 2, u.MaxLoginStreak)
	require.NotNil(t, u.LastLoginDate)
	assert.True(t, domain.SameDay(*u.LastLoginDate, date(4)))
	assert.True(t, f.store.DailyActivityRecorded(user.ID, date(4)))
}

func TestRecordActivity_MilestoneExactness(t *testing.T) {
	ctx := context.Background()

	t.Run("reaching 7 pays the 7-day milestone", func(t *testing.T) {
		f := newFixture(t)
		user := f.store.SeedUser("six")
		f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 6, LongestStreak: 6, LastActivityDate: date(-1), TotalDays: 6})

		res := f.record(t, user.ID)
		assert.Equal(t, 7, res.Streak)
		require.NotNil(t, res.MilestoneReward)
		assert.Equal(t, 7, res.MilestoneReward.Days)

		u := f.store.User(user.ID)
		assert.Equal(t, 25, u.CurrentDiamonds)
		assert.Equal(t, int64(50), u.Experience)
		rows := f.store.Ledger(user.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.TxStreakMilestone, rows[0].Type)
		assert.Equal(t, "7", *rows[0].RelatedID)
		assert.Contains(t, f.types, event.StreakMilestone)
	})

	t.Run("8 is not a milestone", func(t *testing.T) {
		f := newFixture(t)
		user := f.store.SeedUser("seven")
		f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 7, LongestStreak: 7, LastActivityDate: date(-1), TotalDays: 7})

		res := f.record(t, user.ID)
		assert.Equal(t, 8, res.Streak)
		assert.Nil(t, res.MilestoneReward)
		assert.Empty(t, f.store.Ledger(user.ID))
	})

	t.Run("each milestone is paid once", func(t *testing.T) {
		f := newFixture(t)
		user := f.store.SeedUser("again")
		for d := 0; d < 3; d++ {
			f.onDay(d)
			f.record(t, user.ID)
		}
		assert.Equal(t, 10, f.store.User(user.ID).CurrentDiamonds)

		for d := 10; d < 13; d++ {
			f.onDay(d)
			res := f.record(t, user.ID)
			assert.Nil(t, res.MilestoneReward, "day %d", d)
		}
		assert.Equal(t, 10, f.store.User(user.ID).CurrentDiamonds)

		status, err := f.svc.Status(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, status.Milestones[0].Achieved)
		assert.False(t, status.Milestones[1].Achieved)
	})

	t.Run("milestone grants skip the daily limit", func(t *testing.T) {
		f := newFixture(t)
		user := f.store.SeedUser("capped")
		u := f.store.User(user.ID)
		today := date(0)
		u.DailyDiamonds, u.LastDailyReset = 300, &today
		f.store.PutUser(u)
		f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 2, LongestStreak: 2, LastActivityDate: date(-1), TotalDays: 2})

		res := f.record(t, user.ID)
		require.NotNil(t, res.MilestoneReward)
		assert.Equal(t, 300, f.store.User(user.ID).DailyDiamonds)
	})
}

func TestEventTimestampsUseServiceClock(t *testing.T) {
	t.Run("streak milestone", func(t *testing.T) {
		f := newFixture(t)
		f.onDay(3)
		user := f.store.SeedUser("clocked")
		f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 6, LongestStreak: 6, LastActivityDate: date(2), TotalDays: 6})

		f.record(t, user.ID)

		p, ok := f.payload(event.StreakMilestone).(domain.StreakMilestonePayload)
		require.True(t, ok)
		assert.Equal(t, day0.AddDate(0, 0, 3).Unix(), p.Timestamp)
	})

	t.Run("daily login", func(t *testing.T) {
		f := newFixture(t)
		f.onDay(5)
		user := f.store.SeedUser("clocked-login")

		_, err := f.svc.ClaimDailyLogin(context.Background(), user.ID)
		require.NoError(t, err)

		p, ok := f.payload(event.DailyLoginClaimed).(domain.DailyLoginPayload)
		require.True(t, ok)
		assert.Equal(t, day0.AddDate(0, 0, 5).Unix(), p.Timestamp)
	})
}

func TestRecordActivity_ConcurrentSameDay(t *testing.T) {
	f := newFixture(t)
	user := f.store.SeedUser("burst")

	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.RecordActivity(context.Background(), user.ID, domain.ActivityQuiz)
			if assert.NoError(t, err) && !res.AlreadyRecorded {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
	status, err := f.svc.Status(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.CurrentStreak)
	assert.Equal(t, 1, status.TotalLogins)
}

func TestRecordActivity_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("err")

	_, err := f.svc.RecordActivity(ctx, "", domain.ActivityLesson)
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)

	_, err = f.svc.RecordActivity(ctx, user.ID, "")
	assert.ErrorIs(t, err, domain.ErrActivityTypeReq)

	boom := errors.New("write failed")
	f.store.FailOn("UpsertStreak", boom)
	_, err = f.svc.RecordActivity(ctx, user.ID, domain.ActivityLesson)
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.store.DailyActivityRecorded(user.ID, date(0)), "daily row rolled back")
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("status")

	status, err := f.svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, status.CurrentStreak)
	assert.Len(t, status.Milestones, len(Milestones))
	require.NotNil(t, status.NextMilestone)
	assert.Equal(t, 3, status.NextMilestone.Days)

	f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 20, LongestStreak: 25, LastActivityDate: date(-1), TotalDays: 40})
	status, err = f.svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, status.CurrentStreak)
	assert.Equal(t, 25, status.LongestStreak)
	assert.Equal(t, 40, status.TotalLogins)
	assert.Equal(t, 30, status.NextMilestone.Days)

	f.onDay(2)
	status, err = f.svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, status.CurrentStreak, "a lapsed streak reads as 0")
	assert.Equal(t, 25, status.LongestStreak)

	f.store.SetStreak(domain.LoginStreak{UserID: user.ID, CurrentStreak: 400, LongestStreak: 400, LastActivityDate: date(2), TotalDays: 400})
	status, err = f.svc.Status(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, status.NextMilestone)

	_, err = f.svc.Status(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestClaimDailyLogin_WeekCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("weekly")

	wantDiamonds := []int{10, 15, 20, 25, 30, 40, 150, 10}
	for d := 0; d < 8; d++ {
		f.onDay(d)
		res, err := f.svc.ClaimDailyLogin(ctx, user.ID)
		require.NoError(t, err, "day %d", d)
		assert.Equal(t, d%7+1, res.Day)
		assert.Equal(t, d+1, res.ConsecutiveDays)
		assert.Equal(t, wantDiamonds[d], res.Diamonds, "day %d", d)

		if res.Day == 7 {
			assert.True(t, res.IsSpecial)
			assert.Equal(t, LoginWeek[6], res.Reward, "the day-7 table entry is included")
			require.NotNil(t, res.SpecialBonus)
			assert.Equal(t, int64(75+150), res.Experience)
		} else {
			assert.False(t, res.IsSpecial)
			assert.Nil(t, res.SpecialBonus)
		}
	}

	u := f.store.User(user.ID)
	assert.Equal(t, 300, u.CurrentDiamonds)
	assert.Zero(t, u.DailyDiamonds, "login rewards are grants")
	assert.Equal(t, 3, u.Level)

	report, err := ledger.NewService(f.store).Audit(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 8, report.Transactions)
	assert.Contains(t, f.types, event.LevelUp)
}

func TestClaimDailyLogin_SameDayRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("eager")

	_, err := f.svc.ClaimDailyLogin(ctx, user.ID)
	require.NoError(t, err)

	_, err = f.svc.ClaimDailyLogin(ctx, user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimedToday)
	var rej *domain.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, domain.RejectionAlreadyClaimed, rej.Reason)

	assert.Len(t, f.store.Ledger(user.ID), 1)
}

func TestClaimDailyLogin_GapRestartsCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.store.SeedUser("gappy")

	for d := 0; d < 3; d++ {
		f.onDay(d)
		_, err := f.svc.ClaimDailyLogin(ctx, user.ID)
		require.NoError(t, err)
	}

	f.onDay(5)
	status, err := f.svc.DailyLoginStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, status.ClaimedToday)
	assert.Zero(t, status.ConsecutiveDays)
	assert.Equal(t, 1, status.NextDay)
	assert.Equal(t, 3, status.TotalLogins)
	assert.Len(t, status.Week, CycleLength)

	res, err := f.svc.ClaimDailyLogin(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Day)
	assert.Equal(t, 1, res.ConsecutiveDays)

	status, err = f.svc.DailyLoginStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, status.ClaimedToday)
	assert.Equal(t, 2, status.NextDay)
}

func TestCycleDay(t *testing.T) {
	assert.Equal(t, 1, CycleDay(0))
	assert.Equal(t, 7, CycleDay(6))
	assert.Equal(t, 1, CycleDay(7))
	assert.Equal(t, 2, CycleDay(8))
	assert.Equal(t, 1, CycleDay(-3))
}
