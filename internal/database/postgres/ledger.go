package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// InsertTransaction appends a ledger row and returns its ID
func (q *queries) InsertTransaction(ctx context.Context, t *domain.DiamondTransaction) (int64, error) {
	userUUID, err := parseUserUUID(t.UserID)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO diamond_transactions (user_id, amount, transaction_type, description, related_id, related_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING transaction_id, created_at`

	err = q.db.QueryRow(ctx, query, userUUID, t.Amount, string(t.Type), t.Description, t.RelatedID, t.RelatedType).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return 0, wrapErr(ErrMsgFailedToInsertLedgerRow, err)
	}
	return t.ID, nil
}

// GetTransactions returns the newest rows first
func (q *queries) GetTransactions(ctx context.Context, userID string, limit int) ([]domain.DiamondTransaction, error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT transaction_id, user_id::text, amount, transaction_type, description, related_id, related_type, created_at
		FROM diamond_transactions
		WHERE user_id = $1
		ORDER BY transaction_id DESC
		LIMIT $2`

	rows, err := q.db.Query(ctx, query, userUUID, clampLimit(limit))
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryLedger, err)
	}

	txs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DiamondTransaction, error) {
		var t domain.DiamondTransaction
		var txType string
		err := row.Scan(&t.ID, &t.UserID, &t.Amount, &txType, &t.Description, &t.RelatedID, &t.RelatedType, &t.CreatedAt)
		t.Type = domain.TransactionType(txType)
		return t, err
	})
	if err != nil {
		return nil, wrapErr(ErrMsgFailedToQueryLedger, err)
	}
	return txs, nil
}

// GetLedgerTotals aggregates the user's ledger for auditing
func (q *queries) GetLedgerTotals(ctx context.Context, userID string) (sum, credits, count int, err error) {
	userUUID, err := parseUserUUID(userID)
	if err != nil {
		return 0, 0, 0, err
	}

	query := `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
		       COUNT(*)
		FROM diamond_transactions
		WHERE user_id = $1`

	if err := q.db.QueryRow(ctx, query, userUUID).Scan(&sum, &credits, &count); err != nil {
		return 0, 0, 0, wrapErr(ErrMsgFailedToGetLedgerTotals, err)
	}
	return sum, credits, count, nil
}
