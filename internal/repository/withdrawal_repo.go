// internal/repository/withdrawal_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// WithdrawalRepository defines the interface for withdrawal data operations.
type WithdrawalRepository interface {
	// CreateWithdrawal inserts a new withdrawal request.
	CreateWithdrawal(ctx context.Context, q DBExecutor, wd *domain.Withdrawal) error
	// GetWithdrawalByID retrieves a withdrawal by ID.
	GetWithdrawalByID(ctx context.Context, q DBExecutor, id int64) (*domain.Withdrawal, error)
	// GetWithdrawalForUpdate retrieves a withdrawal and row-locks it.
	GetWithdrawalForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Withdrawal, error)
	// UpdateWithdrawal persists mutable withdrawal fields (status, reason,
	// paid_at, rrn, gateway).
	UpdateWithdrawal(ctx context.Context, q DBExecutor, wd *domain.Withdrawal) error
	// ListWithdrawalsByUser retrieves a user's withdrawals, newest first.
	ListWithdrawalsByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, error)
}
