// internal/repository/investment_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// InvestmentRepository defines the interface for investment data operations.
type InvestmentRepository interface {
	// CreateInvestment inserts a new investment.
	CreateInvestment(ctx context.Context, q DBExecutor, inv *domain.Investment) error
	// GetInvestmentByID retrieves an investment by ID.
	GetInvestmentByID(ctx context.Context, q DBExecutor, id int64) (*domain.Investment, error)
	// GetInvestmentForUpdate retrieves an investment and row-locks it for the
	// duration of the enclosing transaction.
	GetInvestmentForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Investment, error)
	// UpdateInvestment persists mutable investment fields (status, proof,
	// remarks, started_at).
	UpdateInvestment(ctx context.Context, q DBExecutor, inv *domain.Investment) error
	// ListInvestmentsByUser retrieves a user's investments, newest first.
	ListInvestmentsByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Investment, error)
}
