package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/database"
	"github.com/osse101/RewardEngine_Go/internal/database/postgres"
)

// InitializeDatabase connects, applies pending migrations and wraps the pool
// in the repository store. The caller closes the pool.
func InitializeDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *postgres.Store, error) {
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns,
		database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}

	return pool, postgres.NewStore(pool), nil
}
