package fakestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// view runs the queries against one copy of the data
type view struct {
	d *data
	s *Store
}

func dayKey(userID string, date time.Time) string {
	return userID + "|" + date.Format(time.DateOnly)
}

func pairKey(a, b string) string {
	return a + "|" + b
}

func (v *view) CreateUser(ctx context.Context, user *domain.User) error {
	if err := v.s.failure("CreateUser"); err != nil {
		return err
	}
	if _, taken := v.d.usernames[user.Username]; taken {
		return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Level < 1 {
		user.Level = 1
	}
	now := v.s.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	v.d.users[user.ID] = *user
	v.d.usernames[user.Username] = user.ID
	return nil
}

func (v *view) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := v.s.failure("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := v.d.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (v *view) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, ok := v.d.usernames[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return v.GetUserByID(ctx, id)
}

func (v *view) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	if err := v.s.failure("GetUserForUpdate"); err != nil {
		return nil, err
	}
	return v.GetUserByID(ctx, userID)
}

func (v *view) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := v.s.failure("UpdateUser"); err != nil {
		return err
	}
	if _, ok := v.d.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = v.s.Now()
	v.d.users[user.ID] = *user
	return nil
}

func (v *view) InsertTransaction(ctx context.Context, t *domain.DiamondTransaction) (int64, error) {
	if err := v.s.failure("InsertTransaction"); err != nil {
		return 0, err
	}
	if t.Amount == 0 {
		return 0, fmt.Errorf("ledger amount must not be zero")
	}
	v.d.nextTxID++
	t.ID = v.d.nextTxID
	t.CreatedAt = v.s.Now()
	v.d.ledger = append(v.d.ledger, *t)
	return t.ID, nil
}

func (v *view) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error) {
	if err := v.s.failure("GetTransactions"); err != nil {
		return nil, err
	}
	out := []domain.DiamondTransaction{}
	for i := len(v.d.ledger) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if v.d.ledger[i].UserID == userID {
			out = append(out, v.d.ledger[i])
		}
	}
	return out, nil
}

func (v *view) GetLedgerTotals(ctx context.Context, userID string) (sum, credits, count int, err error) {
	if err := v.s.failure("GetLedgerTotals"); err != nil {
		return 0, 0, 0, err
	}
	for _, t := range v.d.ledger {
		if t.UserID != userID {
			continue
		}
		sum += t.Amount
		if t.Amount > 0 {
			credits += t.Amount
		}
		count++
	}
	return sum, credits, count, nil
}

func (v *view) GetRecentRarities(ctx context.Context, userID, packType string, limit int) ([]domain.Rarity, error) {
	if err := v.s.failure("GetRecentRarities"); err != nil {
		return nil, err
	}
	out := []domain.Rarity{}
	for i := len(v.d.dists) - 1; i >= 0 && len(out) < limit; i-- {
		d := v.d.dists[i]
		if d.UserID == userID && (packType == "" || d.PackType == packType) {
			out = append(out, d.Rarity)
		}
	}
	return out, nil
}

func (v *view) InsertDistribution(ctx context.Context, dist *domain.CardDistribution) error {
	if err := v.s.failure("InsertDistribution"); err != nil {
		return err
	}
	v.d.nextDistID++
	dist.ID = v.d.nextDistID
	dist.CreatedAt = v.s.Now()
	v.d.dists = append(v.d.dists, *dist)
	return nil
}

func (v *view) GetActiveRateRules(ctx context.Context, packType string) ([]domain.RateRule, error) {
	if err := v.s.failure("GetActiveRateRules"); err != nil {
		return nil, err
	}
	var out []domain.RateRule
	for _, r := range v.d.rateRules {
		if r.PackType == packType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (v *view) GetCardsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Card, error) {
	if err := v.s.failure("GetCardsByRarity"); err != nil {
		return nil, err
	}
	var out []domain.Card
	for _, c := range v.d.cards {
		if c.Rarity == rarity {
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *view) AddUserCard(ctx context.Context, userID string, cardID, quantity int) error {
	if err := v.s.failure("AddUserCard"); err != nil {
		return err
	}
	if v.d.userCards[userID] == nil {
		v.d.userCards[userID] = map[int]int{}
	}
	v.d.userCards[userID][cardID] += quantity
	return nil
}

func (v *view) CountUserCards(ctx context.Context, userID string, minRarity domain.Rarity, distinct bool) (int, error) {
	if err := v.s.failure("CountUserCards"); err != nil {
		return 0, err
	}
	rarityOf := map[int]domain.Rarity{}
	for _, c := range v.d.cards {
		rarityOf[c.ID] = c.Rarity
	}
	count := 0
	for cardID, qty := range v.d.userCards[userID] {
		if minRarity != "" && !rarityOf[cardID].AtLeast(minRarity) {
			continue
		}
		if distinct {
			count++
		} else {
			count += qty
		}
	}
	return count, nil
}

func (v *view) InsertDailyActivity(ctx context.Context, userID string, date time.Time, activityType domain.ActivityType) error {
	if err := v.s.failure("InsertDailyActivity"); err != nil {
		return err
	}
	key := dayKey(userID, date)
	if _, exists := v.d.daily[key]; exists {
		return domain.ErrAlreadyRecorded
	}
	v.d.daily[key] = activityType
	return nil
}

func (v *view) GetStreak(ctx context.Context, userID string) (*domain.LoginStreak, error) {
	if err := v.s.failure("GetStreak"); err != nil {
		return nil, err
	}
	s, ok := v.d.streaks[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (v *view) UpsertStreak(ctx context.Context, streak *domain.LoginStreak) error {
	if err := v.s.failure("UpsertStreak"); err != nil {
		return err
	}
	streak.UpdatedAt = v.s.Now()
	v.d.streaks[streak.UserID] = *streak
	return nil
}

func (v *view) GetMilestoneGrants(ctx context.Context, userID string) ([]int, error) {
	if err := v.s.failure("GetMilestoneGrants"); err != nil {
		return nil, err
	}
	var days []int
	for d := range v.d.milestones[userID] {
		days = append(days, d)
	}
	sort.Ints(days)
	return days, nil
}

func (v *view) InsertMilestoneGrant(ctx context.Context, userID string, days int) (bool, error) {
	if err := v.s.failure("InsertMilestoneGrant"); err != nil {
		return false, err
	}
	if v.d.milestones[userID] == nil {
		v.d.milestones[userID] = map[int]bool{}
	}
	if v.d.milestones[userID][days] {
		return false, nil
	}
	v.d.milestones[userID][days] = true
	return true, nil
}

func (v *view) GetDailyLogin(ctx context.Context, userID string) (*domain.UserDailyLogin, error) {
	if err := v.s.failure("GetDailyLogin"); err != nil {
		return nil, err
	}
	l, ok := v.d.dailyLogins[userID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (v *view) UpsertDailyLogin(ctx context.Context, login *domain.UserDailyLogin) error {
	if err := v.s.failure("UpsertDailyLogin"); err != nil {
		return err
	}
	v.d.dailyLogins[login.UserID] = *login
	return nil
}

func (v *view) InsertDailyLoginClaim(ctx context.Context, userID string, date time.Time, day, diamonds int) error {
	if err := v.s.failure("InsertDailyLoginClaim"); err != nil {
		return err
	}
	key := dayKey(userID, date)
	if _, exists := v.d.loginClaims[key]; exists {
		return domain.ErrAlreadyRecorded
	}
	v.d.loginClaims[key] = day
	return nil
}

func (v *view) GetActiveBadges(ctx context.Context) ([]domain.Badge, error) {
	if err := v.s.failure("GetActiveBadges"); err != nil {
		return nil, err
	}
	var out []domain.Badge
	for _, b := range v.d.badges {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (v *view) GetUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	if err := v.s.failure("GetUserBadges"); err != nil {
		return nil, err
	}
	out := []domain.UserBadge{}
	for _, ub := range v.d.userBadges[userID] {
		out = append(out, ub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeID < out[j].BadgeID })
	return out, nil
}

func (v *view) UpsertBadgeProgress(ctx context.Context, ub *domain.UserBadge) error {
	if err := v.s.failure("UpsertBadgeProgress"); err != nil {
		return err
	}
	if v.d.userBadges[ub.UserID] == nil {
		v.d.userBadges[ub.UserID] = map[int]domain.UserBadge{}
	}
	if existing, ok := v.d.userBadges[ub.UserID][ub.BadgeID]; ok && existing.IsCompleted {
		return nil
	}
	row := domain.UserBadge{
		UserID:     ub.UserID,
		BadgeID:    ub.BadgeID,
		Progress:   ub.Progress,
		IsUnlocked: ub.IsUnlocked,
		UpdatedAt:  v.s.Now(),
	}
	v.d.userBadges[ub.UserID][ub.BadgeID] = row
	return nil
}

func (v *view) CompleteBadge(ctx context.Context, ub *domain.UserBadge) (bool, error) {
	if err := v.s.failure("CompleteBadge"); err != nil {
		return false, err
	}
	if v.d.userBadges[ub.UserID] == nil {
		v.d.userBadges[ub.UserID] = map[int]domain.UserBadge{}
	}
	if existing, ok := v.d.userBadges[ub.UserID][ub.BadgeID]; ok && existing.IsCompleted {
		return false, nil
	}
	now := v.s.Now()
	ub.Progress = 100
	ub.IsUnlocked = true
	ub.IsCompleted = true
	ub.EarnedAt = &now
	ub.UpdatedAt = now
	v.d.userBadges[ub.UserID][ub.BadgeID] = *ub
	return true, nil
}

func (v *view) CountCompletedActivities(ctx context.Context, userID string, activityType domain.ActivityType, category string, minScore int) (int, error) {
	if err := v.s.failure("CountCompletedActivities"); err != nil {
		return 0, err
	}
	count := 0
	for _, a := range v.d.attempts {
		if a.UserID != userID || !a.Completed || a.BestScore < minScore {
			continue
		}
		act := v.d.activities[a.ActivityID]
		if activityType != "" && act.Type != activityType {
			continue
		}
		if category != "" && act.Category != category {
			continue
		}
		count++
	}
	return count, nil
}

func (v *view) GetSkillMastery(ctx context.Context, userID, skill string) (int, error) {
	if err := v.s.failure("GetSkillMastery"); err != nil {
		return 0, err
	}
	return v.d.mastery[pairKey(userID, skill)], nil
}

func (v *view) RefreshSkillMastery(ctx context.Context, userID, category string) (int, error) {
	if err := v.s.failure("RefreshSkillMastery"); err != nil {
		return 0, err
	}
	if category == "" {
		return 0, nil
	}
	total, done := 0, 0
	for _, act := range v.d.activities {
		if act.Category != category {
			continue
		}
		total++
		if a, ok := v.d.attempts[pairKey(userID, act.ID)]; ok && a.Completed {
			done++
		}
	}
	mastery := 0
	if total > 0 {
		mastery = done * 100 / total
	}
	v.d.mastery[pairKey(userID, category)] = mastery
	return mastery, nil
}

func (v *view) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	if err := v.s.failure("GetActivity"); err != nil {
		return nil, err
	}
	a, ok := v.d.activities[activityID]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return &a, nil
}

func (v *view) GetAttemptForUpdate(ctx context.Context, userID, activityID string) (*domain.ActivityAttempt, error) {
	if err := v.s.failure("GetAttemptForUpdate"); err != nil {
		return nil, err
	}
	a, ok := v.d.attempts[pairKey(userID, activityID)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (v *view) UpsertAttempt(ctx context.Context, attempt *domain.ActivityAttempt) error {
	if err := v.s.failure("UpsertAttempt"); err != nil {
		return err
	}
	key := pairKey(attempt.UserID, attempt.ActivityID)
	if existing, ok := v.d.attempts[key]; ok && existing.Completed {
		attempt.Completed = true
		if existing.CompletedAt != nil {
			attempt.CompletedAt = existing.CompletedAt
		}
	}
	attempt.UpdatedAt = v.s.Now()
	v.d.attempts[key] = *attempt
	return nil
}
