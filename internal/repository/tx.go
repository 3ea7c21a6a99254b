package repository

import (
	"context"
)

// Queries is every read and write the reward engine performs. The same set is
// available on the pool and inside a transaction.
type Queries interface {
	User
	Ledger
	Distribution
	Card
	Streak
	DailyLogin
	Badge
	Metrics
	Activity
}

// Tx defines the interface for transactional operations
type Tx interface {
	Queries
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is the relational store behind the reward engine
type Store interface {
	Queries
	BeginTx(ctx context.Context) (Tx, error)
}
