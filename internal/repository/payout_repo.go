// internal/repository/payout_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// PayoutRepository defines the interface for payout data operations.
type PayoutRepository interface {
	// CreatePayoutBatch inserts all payouts of one investment in a single
	// multi-row statement.
	CreatePayoutBatch(ctx context.Context, q DBExecutor, investmentID int64, payouts []domain.Payout) error
	// GetPayoutByID retrieves a payout by ID.
	GetPayoutByID(ctx context.Context, q DBExecutor, id int64) (*domain.Payout, error)
	// GetPayoutForUpdate retrieves a payout and row-locks it.
	GetPayoutForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Payout, error)
	// UpdatePayout persists mutable payout fields (status, paid_at, rrn,
	// gateway, remarks).
	UpdatePayout(ctx context.Context, q DBExecutor, p *domain.Payout) error
	// ListPayoutsByInvestment retrieves an investment's payouts ordered by
	// month number.
	ListPayoutsByInvestment(ctx context.Context, q DBExecutor, investmentID int64) ([]domain.Payout, error)
	// CountUnpaidByInvestment returns how many payouts of the investment have
	// not reached the paid state.
	CountUnpaidByInvestment(ctx context.Context, q DBExecutor, investmentID int64) (int64, error)
}
