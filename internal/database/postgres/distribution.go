package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// GetRecentRarities reads the distribution log newest first.
// An empty packType spans every pack type.
func (q *queries) GetRecentRarities(ctx context.Context, userID, packType string, limit int) ([]domain.Rarity, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT rarity
		FROM card_distribution_log
		WHERE user_id = $1 AND ($2::text = '' OR pack_type = $2)
		ORDER BY distribution_id DESC
		LIMIT $3`

	rows, err := q.db.Query(ctx, query, userUUID, packType, limit)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryRarities, err)
	}

	rarities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Rarity, error) {
		var r string
		err := row.Scan(&r)
		return domain.Rarity(r), err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryRarities, err)
	}
	return rarities, nil
}

func (q *queries) InsertDistribution(ctx context.Context, dist *domain.CardDistribution) error {
	userUUID, err := parseUserUUID(dist.UserID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO card_distribution_log (user_id, pack_type, rarity)
		VALUES ($1, $2, $3)
		RETURNING distribution_id, created_at`

	if err := q.db.QueryRow(ctx, query, userUUID, dist.PackType, string(dist.Rarity)).Scan(&dist.ID, &dist.CreatedAt); err != nil {
		return wrapErr(ErrMsgFailedToInsertDistribution, err)
	}
	return nil
}

func (q *queries) GetActiveRateRules(ctx context.Context, packType string) ([]domain.RateRule, error) {
	query := `
		SELECT pack_type, rarity, rate::float8
		FROM rarity_rate_rules
		WHERE pack_type = $1 AND is_active
		ORDER BY rule_id`

	rows, err := q.db.Query(ctx, query, packType)
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryRateRules, err)
	}

	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RateRule, error) {
		var rule domain.RateRule
		var rarity string
		err := row.Scan(&rule.PackType, &rarity, &rule.Rate)
		rule.Rarity = domain.Rarity(rarity)
		return rule, err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryRateRules, err)
	}
	return rules, nil
}

func (q *queries) GetCardsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Card, error) {
	query := `
		SELECT card_id, card_name, rarity, card_value
		FROM cards
		WHERE rarity = $1
		ORDER BY card_id`

	rows, err := q.db.Query(ctx, query, string(rarity))
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryCards, err)
	}

	cards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Card, error) {
		var c domain.Card
		var r string
		err := row.Scan(&c.ID, &c.Name, &r, &c.Value)
		c.Rarity = domain.Rarity(r)
		return c, err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryCards, err)
	}
	return cards, nil
}

// AddUserCard adds quantity copies of a card to the user's collection
func (q *queries) AddUserCard(ctx context.Context, userID string, cardID, quantity int) error {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_cards (user_id, card_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, card_id) DO UPDATE
		SET quantity = user_cards.quantity + EXCLUDED.quantity`

	if _, err := q.db.Exec(ctx, query, userUUID, cardID, quantity); err != nil {
		return wrapErr(ErrMsgFailedToAddUserCard, err)
	}
	return nil
}

// CountUserCards counts owned cards at or above minRarity. distinct counts
// each card once, otherwise every copy counts.
func (q *queries) CountUserCards(ctx context.Context, userID string, minRarity domain.Rarity, distinct bool) (int, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	agg := "COALESCE(SUM(uc.quantity), 0)"
	if distinct {
		agg = "COUNT(DISTINCT uc.card_id)"
	}
	query := `
		SELECT ` + agg + `
		FROM user_cards uc
		JOIN cards c ON c.card_id = uc.card_id
		WHERE uc.user_id = $1 AND c.rarity = ANY($2)`

	var count int
	if err := q.db.QueryRow(ctx, query, userUUID, raritiesAtLeast(minRarity)).Scan(&count); err != nil {
		return 0, wrapErr(ErrMsgFailedToCountUserCards, err)
	}
	return count, nil
}
