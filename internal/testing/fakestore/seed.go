package fakestore

import (
	"context"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// SeedUser stores a user and returns it with its generated fields
func (s *Store) SeedUser(username string) *domain.User {
	u := &domain.User{Username: username}
	if err := s.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

// PutUser overwrites a stored user
func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = u
	s.data.usernames[u.Username] = u.ID
}

// User returns the committed copy of a user
func (s *Store) User(userID string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[userID]
}

// Ledger returns every committed ledger row of a user, oldest first
func (s *Store) Ledger(userID string) []domain.DiamondTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DiamondTransaction
	for _, t := range s.data.ledger {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// Distributions returns every committed draw of a user, oldest first
func (s *Store) Distributions(userID string) []domain.CardDistribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CardDistribution
	for _, d := range s.data.dists {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out
}

// AddDistributions appends draws for a user in the given order
func (s *Store) AddDistributions(userID, packType string, rarities ...domain.Rarity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rarities {
		s.data.nextDistID++
		s.data.dists = append(s.data.dists, domain.CardDistribution{
			ID: s.data.nextDistID, UserID: userID, PackType: packType, Rarity: r, CreatedAt: s.Now(),
		})
	}
}

// AddRateRule adds an active custom rate
func (s *Store) AddRateRule(packType string, rarity domain.Rarity, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.rateRules = append(s.data.rateRules, domain.RateRule{PackType: packType, Rarity: rarity, Rate: rate})
}

// AddCards adds catalog cards
func (s *Store) AddCards(cards ...domain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.cards = append(s.data.cards, cards...)
}

// UserCards returns the quantity owned per card ID
func (s *Store) UserCards(userID string) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.data.userCards[userID])
}

// AddBadge adds a badge definition
func (s *Store) AddBadge(b domain.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.badges = append(s.data.badges, b)
}

// AddActivity adds a catalog activity
func (s *Store) AddActivity(a domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.activities[a.ID] = a
}

// SetStreak overwrites the streak row of a user
func (s *Store) SetStreak(streak domain.LoginStreak) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.streaks[streak.UserID] = streak
}

// SetMastery overwrites a stored skill mastery
func (s *Store) SetMastery(userID, skill string, mastery int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.mastery[pairKey(userID, skill)] = mastery
}

// DailyActivityRecorded reports whether a daily activity row exists
func (s *Store) DailyActivityRecorded(userID string, date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.daily[dayKey(userID, date)]
	return ok
}

// UserBadge returns a user's badge row
func (s *Store) UserBadge(userID string, badgeID int) (domain.UserBadge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ub, ok := s.data.userBadges[userID][badgeID]
	return ub, ok
}
