// internal/repository/postgres/withdrawal_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

const withdrawalColumns = `id, user_id, amount, source, charges, tds, net_amount, status, reason, paid_at, rrn, gateway, created_at, updated_at`

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db *sqlx.DB) repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

// CreateWithdrawal inserts a new withdrawal request.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, wd *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (user_id, amount, source, charges, tds, net_amount, status, reason, paid_at, rrn, gateway, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		wd.UserID, wd.Amount, wd.Source, wd.Charges, wd.TDS, wd.NetAmount,
		wd.Status, wd.Reason, wd.PaidAt, wd.RRN, wd.Gateway,
		wd.CreatedAt, wd.UpdatedAt,
	).Scan(&wd.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

// GetWithdrawalByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	var wd domain.Withdrawal
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	err := q.GetContext(ctx, &wd, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal %d: %w", id, err)
	}
	return &wd, nil
}

// GetWithdrawalForUpdate retrieves a withdrawal with a row lock held for the
// remainder of the enclosing transaction.
func (r *WithdrawalRepository) GetWithdrawalForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	var wd domain.Withdrawal
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &wd, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal %d: %w", id, err)
	}
	return &wd, nil
}

// UpdateWithdrawal persists mutable withdrawal fields.
func (r *WithdrawalRepository) UpdateWithdrawal(ctx context.Context, q repository.DBExecutor, wd *domain.Withdrawal) error {
	query := `UPDATE withdrawals SET status = $1, reason = $2, paid_at = $3, rrn = $4, gateway = $5, updated_at = $6 WHERE id = $7`
	result, err := q.ExecContext(ctx, query, wd.Status, wd.Reason, wd.PaidAt, wd.RRN, wd.Gateway, time.Now().UTC(), wd.ID)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %d: %w", wd.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating withdrawal %d: %w", wd.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrWithdrawalNotFound
	}
	return nil
}

// ListWithdrawalsByUser retrieves a user's withdrawals, newest first.
func (r *WithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, error) {
	withdrawals := []domain.Withdrawal{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &withdrawals, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch withdrawals for user %d: %w", userID, err)
	}
	return withdrawals, nil
}
