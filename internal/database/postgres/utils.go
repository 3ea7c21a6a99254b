package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// parseUserUUID parses a user ID string to uuid.UUID with consistent error message.
// An ID that is not a UUID can never exist, so it reads as "user not found".
func parseUserUUID(userID string) (uuid.UUID, error) {
	u, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", domain.ErrUserNotFound, ErrMsgInvalidUserID, err)
	}
	return u, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// wrapErr annotates a driver error, surfacing deadlocks as a domain error
func wrapErr(msg string, err error) error {
	if isPgError(err, PgErrorCodeDeadlock) {
		return fmt.Errorf("%s: %w: %v", msg, domain.ErrDeadlockDetected, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// raritiesAtLeast lists the tiers at or above min, all tiers when min is empty
func raritiesAtLeast(min domain.Rarity) []string {
	out := make([]string, 0, len(domain.Rarities))
	for _, r := range domain.Rarities {
		if min == "" || r.AtLeast(min) {
			out = append(out, string(r))
		}
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		return MaxTransactionLimit
	}
	return limit
}
