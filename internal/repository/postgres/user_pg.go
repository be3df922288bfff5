// internal/repository/postgres/user_pg.go
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

const userColumns = `id, email, referred_by, kyc_verified, balance, locked, total_profit, total_payout, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (email, referred_by, kyc_verified, balance, locked, total_profit, total_payout, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.Email, user.ReferredBy, user.KYCVerified,
		user.Balance, user.Locked, user.TotalProfit, user.TotalPayout,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email using the provided DBExecutor.
func (r *UserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := q.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email '%s': %w", email, err)
	}
	return &user, nil
}

// GetUserForUpdate retrieves a user with a row lock held for the remainder of
// the enclosing transaction. Wallet mutations must read through this so
// concurrent operations against the same user serialize.
func (r *UserRepository) GetUserForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateWallet persists the wallet fields of a user.
func (r *UserRepository) UpdateWallet(ctx context.Context, q repository.DBExecutor, userID int64, w domain.Wallet) error {
	query := `UPDATE users SET balance = $1, locked = $2, total_profit = $3, total_payout = $4, updated_at = $5 WHERE id = $6`
	result, err := q.ExecContext(ctx, query, w.Balance, w.Locked, w.TotalProfit, w.TotalPayout, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update wallet for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating wallet for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// SetKYCVerified flips the user's KYC verification flag.
func (r *UserRepository) SetKYCVerified(ctx context.Context, q repository.DBExecutor, userID int64, verified bool) error {
	query := `UPDATE users SET kyc_verified = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, verified, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set kyc_verified for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}
