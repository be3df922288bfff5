// internal/repository/user_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// UserRepository defines the interface for user and wallet data operations.
type UserRepository interface {
	// CreateUser adds a new user with a zeroed wallet.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// GetUserForUpdate retrieves a user and row-locks it for the duration of
	// the enclosing transaction. Every wallet mutation must read through this.
	GetUserForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// UpdateWallet persists the wallet fields of the given user.
	UpdateWallet(ctx context.Context, q DBExecutor, userID int64, w domain.Wallet) error
	// SetKYCVerified flips the user's KYC verification flag.
	SetKYCVerified(ctx context.Context, q DBExecutor, userID int64, verified bool) error
}
