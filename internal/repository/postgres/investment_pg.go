// internal/repository/postgres/investment_pg.go
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

const investmentColumns = `id, user_id, principal, method, proof_url, utr, status, started_at, plan_version, meta, remarks, created_at, updated_at`

// InvestmentRepository implements repository.InvestmentRepository for PostgreSQL.
type InvestmentRepository struct{}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db *sqlx.DB) repository.InvestmentRepository {
	return &InvestmentRepository{}
}

// CreateInvestment inserts a new investment using the provided DBExecutor.
func (r *InvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, inv *domain.Investment) error {
	query := `INSERT INTO investments (user_id, principal, method, proof_url, utr, status, started_at, plan_version, meta, remarks, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		inv.UserID, inv.Principal, inv.Method, inv.ProofURL, inv.UTR,
		inv.Status, inv.StartedAt, inv.PlanVersion, inv.Meta, inv.Remarks,
		inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

// GetInvestmentByID retrieves an investment by ID.
func (r *InvestmentRepository) GetInvestmentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	var inv domain.Investment
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	err := q.GetContext(ctx, &inv, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment %d: %w", id, err)
	}
	return &inv, nil
}

// GetInvestmentForUpdate retrieves an investment with a row lock held for the
// remainder of the enclosing transaction.
func (r *InvestmentRepository) GetInvestmentForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	var inv domain.Investment
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &inv, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to lock investment %d: %w", id, err)
	}
	return &inv, nil
}

// UpdateInvestment persists mutable investment fields.
func (r *InvestmentRepository) UpdateInvestment(ctx context.Context, q repository.DBExecutor, inv *domain.Investment) error {
	query := `UPDATE investments SET proof_url = $1, utr = $2, status = $3, started_at = $4, remarks = $5, updated_at = $6 WHERE id = $7`
	result, err := q.ExecContext(ctx, query, inv.ProofURL, inv.UTR, inv.Status, inv.StartedAt, inv.Remarks, time.Now().UTC(), inv.ID)
	if err != nil {
		return fmt.Errorf("failed to update investment %d: %w", inv.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating investment %d: %w", inv.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrInvestmentNotFound
	}
	return nil
}

// ListInvestmentsByUser retrieves a user's investments, newest first.
func (r *InvestmentRepository) ListInvestmentsByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &investments, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch investments for user %d: %w", userID, err)
	}
	return investments, nil
}
