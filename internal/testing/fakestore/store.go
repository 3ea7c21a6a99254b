// Package fakestore is an in-memory repository.Store for service tests.
//
// Transactions are serialized: BeginTx takes a store-wide lock, works on a
// private copy of the data and publishes it on Commit. Calls made outside a
// transaction write to the committed data directly.
package fakestore

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

type data struct {
	users       map[string]domain.User
	usernames   map[string]string
	ledger      []domain.DiamondTransaction
	dists       []domain.CardDistribution
	rateRules   []domain.RateRule
	cards       []domain.Card
	userCards   map[string]map[int]int
	daily       map[string]domain.ActivityType
	streaks     map[string]domain.LoginStreak
	milestones  map[string]map[int]bool
	dailyLogins map[string]domain.UserDailyLogin
	loginClaims map[string]int
	badges      []domain.Badge
	userBadges  map[string]map[int]domain.UserBadge
	activities  map[string]domain.Activity
	attempts    map[string]domain.ActivityAttempt
	mastery     map[string]int
	nextTxID    int64
	nextDistID  int64
}

func newData() *data {
	return &data{
		users:       map[string]domain.User{},
		usernames:   map[string]string{},
		userCards:   map[string]map[int]int{},
		daily:       map[string]domain.ActivityType{},
		streaks:     map[string]domain.LoginStreak{},
		milestones:  map[string]map[int]bool{},
		dailyLogins: map[string]domain.UserDailyLogin{},
		loginClaims: map[string]int{},
		userBadges:  map[string]map[int]domain.UserBadge{},
		activities:  map[string]domain.Activity{},
		attempts:    map[string]domain.ActivityAttempt{},
		mastery:     map[string]int{},
	}
}

func (d *data) clone() *data {
	c := &data{
		ledger:     append([]domain.DiamondTransaction(nil), d.ledger...),
		dists:      append([]domain.CardDistribution(nil), d.dists...),
		rateRules:  append([]domain.RateRule(nil), d.rateRules...),
		cards:      append([]domain.Card(nil), d.cards...),
		badges:     append([]domain.Badge(nil), d.badges...),
		nextTxID:   d.nextTxID,
		nextDistID: d.nextDistID,
	}
	c.users = copyMap(d.users)
	c.usernames = copyMap(d.usernames)
	c.daily = copyMap(d.daily)
	c.streaks = copyMap(d.streaks)
	c.dailyLogins = copyMap(d.dailyLogins)
	c.loginClaims = copyMap(d.loginClaims)
	c.activities = copyMap(d.activities)
	c.attempts = copyMap(d.attempts)
	c.mastery = copyMap(d.mastery)
	c.userCards = copyNested(d.userCards)
	c.milestones = copyNested(d.milestones)
	c.userBadges = copyNested(d.userBadges)
	return c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyNested[K comparable, K2 comparable, V any](m map[K]map[K2]V) map[K]map[K2]V {
	out := make(map[K]map[K2]V, len(m))
	for k, v := range m {
		out[k] = copyMap(v)
	}
	return out
}

// Store is an in-memory repository.Store
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *data

	failMu   sync.Mutex
	failures map[string]error

	// Now stamps created_at style columns
	Now func() time.Time
}

// New creates an empty Store
func New() *Store {
	return &Store{
		data:     newData(),
		failures: map[string]error{},
		Now:      time.Now,
	}
}

// FailOn makes every later call of method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

func (s *Store) failure(method string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.failures[method]
}

// direct returns a view on the committed data. The caller must call done.
func (s *Store) direct() (*view, func()) {
	s.mu.Lock()
	return &view{d: s.data, s: s}, s.mu.Unlock
}

// BeginTx blocks until no other transaction is open
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	if err := s.failure("BeginTx"); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()
	return &tx{view: view{d: snapshot, s: s}}, nil
}

type tx struct {
	view
	closed bool
}

func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	defer t.s.txMu.Unlock()
	if err := t.s.failure("Commit"); err != nil {
		return err
	}
	t.s.mu.Lock()
	t.s.data = t.d
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	t.s.txMu.Unlock()
	return nil
}

var _ repository.Store = (*Store)(nil)
