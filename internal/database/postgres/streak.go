package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// InsertDailyActivity records the user's activity for a calendar date.
// The (user_id, activity_date) key makes a second call a no-op.
func (q *queries) InsertDailyActivity(ctx context.Context, userID string, date time.Time, activityType domain.ActivityType) error {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO daily_activities (user_id, activity_date, activity_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, activity_date) DO NOTHING`

	tag, err := q.db.Exec(ctx, query, userUUID, date, string(activityType))
	if err != nil {
		return wrapErr(ErrMsgFailedToInsertDailyActivity, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyRecorded
	}
	return nil
}

func (q *queries) GetStreak(ctx context.Context, userID string) (*domain.LoginStreak, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT user_id::text, current_streak, longest_streak, last_activity_date, total_days, updated_at
		FROM login_streaks
		WHERE user_id = $1`

	var s domain.LoginStreak
	err = q.db.QueryRow(ctx, query, userUUID).Scan(
		&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastActivityDate, &s.TotalDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(ErrMsgFailedToGetStreak, err)
	}
	return &s, nil
}

func (q *queries) UpsertStreak(ctx context.Context, s *domain.LoginStreak) error {
	userUUID, err := parseUserUUID(s.UserID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO login_streaks (user_id, current_streak, longest_streak, last_activity_date, total_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    last_activity_date = EXCLUDED.last_activity_date,
		    total_days = EXCLUDED.total_days,
		    updated_at = NOW()
		RETURNING updated_at`

	err = q.db.QueryRow(ctx, query, userUUID, s.CurrentStreak, s.LongestStreak, s.LastActivityDate, s.TotalDays).
		Scan(&s.UpdatedAt)
	if err != nil {
		return wrapErr(ErrMsgFailedToUpsertStreak, err)
	}
	return nil
}

func (q *queries) GetMilestoneGrants(ctx context.Context, userID string) ([]int, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.Query(ctx,
		`SELECT milestone_days FROM streak_milestone_grants WHERE user_id = $1 ORDER BY milestone_days`, userUUID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryMilestones, err)
	}

	days, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryMilestones, err)
	}
	return days, nil
}

// InsertMilestoneGrant reports false when the milestone was already granted
func (q *queries) InsertMilestoneGrant(ctx context.Context, userID string, days int) (bool, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO streak_milestone_grants (user_id, milestone_days)
		VALUES ($1, $2)
		ON CONFLICT (user_id, milestone_days) DO NOTHING`

	tag, err := q.db.Exec(ctx, query, userUUID, days)
	if err != nil {
		return false, wrapErr(ErrMsgFailedToInsertMilestone, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) GetDailyLogin(ctx context.Context, userID string) (*domain.UserDailyLogin, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT user_id::text, consecutive_days, last_login_date, total_logins, total_earned_diamonds, total_earned_xp
		FROM user_daily_logins
		WHERE user_id = $1`

	var l domain.UserDailyLogin
	err = q.db.QueryRow(ctx, query, userUUID).Scan(
		&l.UserID, &l.ConsecutiveDays, &l.LastLoginDate, &l.TotalLogins, &l.TotalEarnedDiamonds, &l.TotalEarnedXP,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(ErrMsgFailedToGetDailyLogin, err)
	}
	return &l, nil
}

func (q *queries) UpsertDailyLogin(ctx context.Context, l *domain.UserDailyLogin) error {
	userUUID, err := parseUserUUID(l.UserID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_daily_logins (user_id, consecutive_days, last_login_date, total_logins, total_earned_diamonds, total_earned_xp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET consecutive_days = EXCLUDED.consecutive_days,
		    last_login_date = EXCLUDED.last_login_date,
		    total_logins = EXCLUDED.total_logins,
		    total_earned_diamonds = EXCLUDED.total_earned_diamonds,
		    total_earned_xp = EXCLUDED.total_earned_xp`

	_, err = q.db.Exec(ctx, query, userUUID, l.ConsecutiveDays, l.LastLoginDate, l.TotalLogins, l.TotalEarnedDiamonds, l.TotalEarnedXP)
	if err != nil {
		return wrapErr(ErrMsgFailedToUpsertDailyLogin, err)
	}
	return nil
}

// InsertDailyLoginClaim returns domain.ErrAlreadyRecorded on a same-day claim
func (q *queries) InsertDailyLoginClaim(ctx context.Context, userID string, date time.Time, day, diamonds int) error {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO daily_login_claims (user_id, claim_date, cycle_day, diamonds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, claim_date) DO NOTHING`

	tag, err := q.db.Exec(ctx, query, userUUID, date, day, diamonds)
	if err != nil {
		return wrapErr(ErrMsgFailedToInsertDailyLoginDay, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyRecorded
	}
	return nil
}
