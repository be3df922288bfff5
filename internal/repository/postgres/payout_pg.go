// internal/repository/postgres/payout_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

const payoutColumns = `id, investment_id, month_no, due_date, gross_payout, admin_charge, booster, tds, net_payout, status, paid_at, rrn, gateway, remarks, created_at, updated_at`

// PayoutRepository implements repository.PayoutRepository for PostgreSQL.
type PayoutRepository struct{}

// NewPayoutRepository creates a new PayoutRepository.
func NewPayoutRepository(db *sqlx.DB) repository.PayoutRepository {
	return &PayoutRepository{}
}

// CreatePayoutBatch inserts all payouts of one investment in a single
// multi-row statement so the enclosing activation transaction stays short.
func (r *PayoutRepository) CreatePayoutBatch(ctx context.Context, q repository.DBExecutor, investmentID int64, payouts []domain.Payout) error {
	if len(payouts) == 0 {
		return util.ErrInvalidInput
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO payouts (investment_id, month_no, due_date, gross_payout, admin_charge, booster, tds, net_payout, status, created_at, updated_at) VALUES `)
	args := make([]interface{}, 0, len(payouts)*11)
	for i, p := range payouts {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 11
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		args = append(args,
			investmentID, p.MonthNo, p.DueDate, p.GrossPayout, p.AdminCharge,
			p.Booster, p.TDS, p.NetPayout, p.Status, p.CreatedAt, p.UpdatedAt,
		)
	}

	if _, err := q.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to batch insert %d payouts for investment %d: %w", len(payouts), investmentID, err)
	}
	return nil
}

// GetPayoutByID retrieves a payout by ID.
func (r *PayoutRepository) GetPayoutByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payout, error) {
	var p domain.Payout
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`
	err := q.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to get payout %d: %w", id, err)
	}
	return &p, nil
}

// GetPayoutForUpdate retrieves a payout with a row lock held for the
// remainder of the enclosing transaction.
func (r *PayoutRepository) GetPayoutForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payout, error) {
	var p domain.Payout
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to lock payout %d: %w", id, err)
	}
	return &p, nil
}

// UpdatePayout persists mutable payout fields.
func (r *PayoutRepository) UpdatePayout(ctx context.Context, q repository.DBExecutor, p *domain.Payout) error {
	query := `UPDATE payouts SET status = $1, paid_at = $2, rrn = $3, gateway = $4, remarks = $5, updated_at = $6 WHERE id = $7`
	result, err := q.ExecContext(ctx, query, p.Status, p.PaidAt, p.RRN, p.Gateway, p.Remarks, time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update payout %d: %w", p.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating payout %d: %w", p.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrPayoutNotFound
	}
	return nil
}

// ListPayoutsByInvestment retrieves an investment's payouts ordered by month.
func (r *PayoutRepository) ListPayoutsByInvestment(ctx context.Context, q repository.DBExecutor, investmentID int64) ([]domain.Payout, error) {
	payouts := []domain.Payout{}
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE investment_id = $1 ORDER BY month_no ASC`
	if err := q.SelectContext(ctx, &payouts, query, investmentID); err != nil {
		return nil, fmt.Errorf("failed to fetch payouts for investment %d: %w", investmentID, err)
	}
	return payouts, nil
}

// CountUnpaidByInvestment returns how many payouts have not reached paid.
func (r *PayoutRepository) CountUnpaidByInvestment(ctx context.Context, q repository.DBExecutor, investmentID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM payouts WHERE investment_id = $1 AND status <> $2`
	if err := q.GetContext(ctx, &count, query, investmentID, domain.PayoutPaid); err != nil {
		return 0, fmt.Errorf("failed to count unpaid payouts for investment %d: %w", investmentID, err)
	}
	return count, nil
}
