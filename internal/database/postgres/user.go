package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

const userColumns = `
	user_id::text, username, is_premium, current_diamonds, total_diamonds, daily_diamonds,
	last_daily_reset, experience, level, login_streak, max_login_streak, last_login_date,
	created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.IsPremium, &u.CurrentDiamonds, &u.TotalDiamonds, &u.DailyDiamonds,
		&u.LastDailyReset, &u.Experience, &u.Level, &u.LoginStreak, &u.MaxLoginStreak, &u.LastLoginDate,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and fills the generated columns back into it
func (q *queries) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, username, is_premium, level)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, GREATEST($4, 1))
		RETURNING ` + userColumns

	var id *string
	if user.ID != "" {
		if _, err := parseUserUUID(user.ID); err != nil {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidUserID)
		}
		id = &user.ID
	}

	created, err := scanUser(q.db.QueryRow(ctx, query, id, user.Username, user.IsPremium, user.Level))
	if err != nil {
		if isPgError(err, PgErrorCodeUniqueViolation) {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
		}
		return wrapErr(ErrMsgFailedToInsertUser, err)
	}
	*user = *created
	return nil
}

// GetUserByID returns domain.ErrUserNotFound when no row matches
func (q *queries) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return q.getUser(ctx, userID, false)
}

// GetUserForUpdate locks the row with FOR UPDATE
func (q *queries) GetUserForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return q.getUser(ctx, userID, true)
}

func (q *queries) getUser(ctx context.Context, userID string, forUpdate bool) (*domain.User, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	msg := ErrMsgFailedToGetUser
	if forUpdate {
		query += ` FOR UPDATE`
		msg = ErrMsgFailedToGetUserForLock
	}

	user, err := scanUser(q.db.QueryRow(ctx, query, userUUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapErr(msg, err)
	}
	return user, nil
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(q.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapErr(ErrMsgFailedToGetUserByName, err)
	}
	return user, nil
}

// UpdateUser writes back every mutable counter
func (q *queries) UpdateUser(ctx context.Context, user *domain.User) error {
	userUUID, err := parseUserUUID(user.ID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET is_premium = $2,
		    current_diamonds = $3,
		    total_diamonds = $4,
		    daily_diamonds = $5,
		    last_daily_reset = $6,
		    experience = $7,
		    level = $8,
		    login_streak = $9,
		    max_login_streak = $10,
		    last_login_date = $11,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err = q.db.QueryRow(ctx, query, userUUID,
		user.IsPremium, user.CurrentDiamonds, user.TotalDiamonds, user.DailyDiamonds,
		user.LastDailyReset, user.Experience, user.Level, user.LoginStreak, user.MaxLoginStreak,
		user.LastLoginDate,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return wrapErr(ErrMsgFailedToUpdateUser, err)
	}
	return nil
}
