package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func (q *queries) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	query := `
		SELECT activity_id, activity_type, title, category, diamond_reward, experience_reward, passing_score
		FROM activities
		WHERE activity_id = $1`

	var a domain.Activity
	var activityType string
	err := q.db.QueryRow(ctx, query, activityID).Scan(
		&a.ID, &activityType, &a.Title, &a.Category, &a.DiamondReward, &a.ExperienceReward, &a.PassingScore,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, wrapErr(ErrMsgFailedToGetActivity, err)
	}
	a.Type = domain.ActivityType(activityType)
	return &a, nil
}

// GetAttemptForUpdate locks the attempt row; (nil, nil) before the first attempt
func (q *queries) GetAttemptForUpdate(ctx context.Context, userID, activityID string) (*domain.ActivityAttempt, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT user_id::text, activity_id, attempts, best_score, completed, time_spent_seconds, completed_at, updated_at
		FROM activity_attempts
		WHERE user_id = $1 AND activity_id = $2
		FOR UPDATE`

	var a domain.ActivityAttempt
	err = q.db.QueryRow(ctx, query, userUUID, activityID).Scan(
		&a.UserID, &a.ActivityID, &a.Attempts, &a.BestScore, &a.Completed, &a.TimeSpentSeconds, &a.CompletedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(ErrMsgFailedToGetAttempt, err)
	}
	return &a, nil
}

func (q *queries) UpsertAttempt(ctx context.Context, a *domain.ActivityAttempt) error {
	userUUID, err := parseUserUUID(a.UserID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activity_attempts (user_id, activity_id, attempts, best_score, completed, time_spent_seconds, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, activity_id) DO UPDATE
		SET attempts = EXCLUDED.attempts,
		    best_score = EXCLUDED.best_score,
		    completed = activity_attempts.completed OR EXCLUDED.completed,
		    time_spent_seconds = EXCLUDED.time_spent_seconds,
		    completed_at = COALESCE(activity_attempts.completed_at, EXCLUDED.completed_at),
		    updated_at = NOW()
		RETURNING updated_at`

	err = q.db.QueryRow(ctx, query, userUUID, a.ActivityID, a.Attempts, a.BestScore, a.Completed, a.TimeSpentSeconds, a.CompletedAt).
		Scan(&a.UpdatedAt)
	if err != nil {
		return wrapErr(ErrMsgFailedToUpsertAttempt, err)
	}
	return nil
}

// CountCompletedActivities counts completed attempts matching the optional filters
func (q *queries) CountCompletedActivities(ctx context.Context, userID string, activityType domain.ActivityType, category string, minScore int) (int, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	query := `
		SELECT COUNT(*)
		FROM activity_attempts aa
		JOIN activities a ON a.activity_id = aa.activity_id
		WHERE aa.user_id = $1
		  AND aa.completed
		  AND ($2::text = '' OR a.activity_type = $2)
		  AND ($3::text = '' OR a.category = $3)
		  AND aa.best_score >= $4`

	var count int
	if err := q.db.QueryRow(ctx, query, userUUID, string(activityType), category, minScore).Scan(&count); err != nil {
		return 0, wrapErr(ErrMsgFailedToCountActivities, err)
	}
	return count, nil
}

// GetSkillMastery returns 0 for a skill never refreshed
func (q *queries) GetSkillMastery(ctx context.Context, userID, skill string) (int, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	var mastery int
	err = q.db.QueryRow(ctx,
		`SELECT mastery FROM user_skill_mastery WHERE user_id = $1 AND skill = $2`, userUUID, skill).Scan(&mastery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, wrapErr(ErrMsgFailedToGetSkillMastery, err)
	}
	return mastery, nil
}

// RefreshSkillMastery stores the share of the category's activities the user
// has completed, as a whole percentage.
func (q *queries) RefreshSkillMastery(ctx context.Context, userID, category string) (int, error) {
	if category == "" {
		return 0, nil
	}
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO user_skill_mastery (user_id, skill, mastery, updated_at)
		SELECT $1::uuid, $2::varchar,
		       COALESCE(COUNT(aa.activity_id) FILTER (WHERE aa.completed) * 100 / NULLIF(COUNT(a.activity_id), 0), 0),
		       NOW()
		FROM activities a
		LEFT JOIN activity_attempts aa ON aa.activity_id = a.activity_id AND aa.user_id = $1
		WHERE a.category = $2
		ON CONFLICT (user_id, skill) DO UPDATE
		SET mastery = EXCLUDED.mastery, updated_at = NOW()
		RETURNING mastery`

	var mastery int
	if err := q.db.QueryRow(ctx, query, userUUID, category).Scan(&mastery); err != nil {
		return 0, wrapErr(ErrMsgFailedToRefreshSkillMastery, err)
	}
	return mastery, nil
}
