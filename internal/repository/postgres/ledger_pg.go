// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"investflow/internal/domain"
	"investflow/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
// The ledger_entries table is append-only; no update or delete exists here.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &LedgerRepository{}
}

// CreateEntry appends one ledger entry using the provided DBExecutor.
func (r *LedgerRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries
	          (user_id, investment_id, withdrawal_id, payout_id, type, direction, amount,
	           balance_before, balance_after, locked_before, locked_after, note, ref_id, meta, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		entry.UserID, entry.InvestmentID, entry.WithdrawalID, entry.PayoutID,
		entry.Type, entry.Direction, entry.Amount,
		entry.BalanceBefore, entry.BalanceAfter, entry.LockedBefore, entry.LockedAfter,
		entry.Note, entry.RefID, entry.Meta, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// ListByUser retrieves a paginated ledger history for a user, newest first.
func (r *LedgerRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	entries := []domain.LedgerEntry{}
	query := `
		SELECT id, user_id, investment_id, withdrawal_id, payout_id, type, direction, amount,
		       balance_before, balance_after, locked_before, locked_after, note, ref_id, meta, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &entries, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ledger entries for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries for user %d: %w", userID, err)
	}

	return entries, totalCount, nil
}
