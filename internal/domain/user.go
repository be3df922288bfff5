// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a platform member. Wallet fields are embedded in the user
// record and owned exclusively by that user; they are mutated only through
// wallet operations (see wallet.go).
type User struct {
	ID          int64     `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	ReferredBy  *int64    `db:"referred_by" json:"referred_by,omitempty"` // referring user, if any
	KYCVerified bool      `db:"kyc_verified" json:"kyc_verified"`
	Wallet
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with a zeroed wallet.
func NewUser(email string, referredBy *int64) *User {
	now := time.Now().UTC()
	return &User{
		Email:      email,
		ReferredBy: referredBy,
		Wallet: Wallet{
			Balance:     decimal.Zero,
			Locked:      decimal.Zero,
			TotalProfit: decimal.Zero,
			TotalPayout: decimal.Zero,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
