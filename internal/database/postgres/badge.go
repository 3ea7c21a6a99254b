package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// GetActiveBadges loads every active badge together with its rules
func (q *queries) GetActiveBadges(ctx context.Context) ([]domain.Badge, error) {
	rows, err := q.db.Query(ctx, `
		SELECT badge_id, badge_key, badge_name, description, reward_diamonds, reward_experience, is_active
		FROM badges
		WHERE is_active
		ORDER BY badge_id`)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryBadges, err)
	}

	badges, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Badge, error) {
		var b domain.Badge
		err := row.Scan(&b.ID, &b.Key, &b.Name, &b.Description, &b.RewardDiamonds, &b.RewardExperience, &b.IsActive)
		return b, err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryBadges, err)
	}
	if len(badges) == 0 {
		return badges, nil
	}

	ids := make([]int32, len(badges))
	index := make(map[int]int, len(badges))
	for i, b := range badges {
		ids[i] = int32(b.ID)
		index[b.ID] = i
	}

	ruleRows, err := q.db.Query(ctx, `
		SELECT rule_id, badge_id, rule_type, metric, target, weight::float8, definition
		FROM badge_rules
		WHERE badge_id = ANY($1)
		ORDER BY badge_id, rule_id`, ids)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryBadgeRules, err)
	}
	defer ruleRows.Close()

	for ruleRows.Next() {
		var rule domain.BadgeRule
		var ruleType string
		var definition []byte
		if err := ruleRows.Scan(&rule.ID, &rule.BadgeID, &ruleType, &rule.Metric, &rule.Target, &rule.Weight, &definition); err != nil {
			return nil, wrapErr(ErrMsgFailedToQueryBadgeRules, err)
		}
		rule.Condition, err = domain.DecodeRuleCondition(domain.RuleType(ruleType), rule.Metric, definition)
		if err != nil {
			return nil, fmt.Errorf("badge rule %d: %w", rule.ID, err)
		}
		i := index[rule.BadgeID]
		badges[i].Rules = append(badges[i].Rules, rule)
	}
	if err := ruleRows.Err(); err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryBadgeRules, err)
	}

	return badges, nil
}

func (q *queries) GetUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := q.db.Query(ctx, `
		SELECT user_id::text, badge_id, progress, is_unlocked, is_completed, earned_at, updated_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY badge_id`, userUUID)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryUserBadges, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UserBadge, error) {
		var ub domain.UserBadge
		err := row.Scan(&ub.UserID, &ub.BadgeID, &ub.Progress, &ub.IsUnlocked, &ub.IsCompleted, &ub.EarnedAt, &ub.UpdatedAt)
		return ub, err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryUserBadges, err)
	}
	return out, nil
}

// UpsertBadgeProgress stores progress for a badge that is not completed yet.
// Completed rows are left as they are.
func (q *queries) UpsertBadgeProgress(ctx context.Context, ub *domain.UserBadge) error {
	userUUID, err := parseUserUUID(ub.UserID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_badges (user_id, badge_id, progress, is_unlocked, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, badge_id) DO UPDATE
		SET progress = EXCLUDED.progress,
		    is_unlocked = EXCLUDED.is_unlocked,
		    updated_at = NOW()
		WHERE NOT user_badges.is_completed`

	if _, err := q.db.Exec(ctx, query, userUUID, ub.BadgeID, ub.Progress, ub.IsUnlocked); err != nil {
		return wrapErr(ErrMsgFailedToUpsertBadgeProgress, err)
	}
	return nil
}

// CompleteBadge marks the badge completed unless it already is. Only the
// call that performs the transition gets true back.
func (q *queries) CompleteBadge(ctx context.Context, ub *domain.UserBadge) (bool, error) {
	userUUID, err := parseUserUUID(ub.UserID)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO user_badges (user_id, badge_id, progress, is_unlocked, is_completed, earned_at, updated_at)
		VALUES ($1, $2, 100, TRUE, TRUE, NOW(), NOW())
		ON CONFLICT (user_id, badge_id) DO UPDATE
		SET progress = 100,
		    is_unlocked = TRUE,
		    is_completed = TRUE,
		    earned_at = NOW(),
		    updated_at = NOW()
		WHERE NOT user_badges.is_completed
		RETURNING earned_at, updated_at`

	err = q.db.QueryRow(ctx, query, userUUID, ub.BadgeID).Scan(&ub.EarnedAt, &ub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, wrapErr(ErrMsgFailedToCompleteBadge, err)
	}
	ub.Progress = 100
	ub.IsUnlocked = true
	ub.IsCompleted = true
	return true, nil
}
