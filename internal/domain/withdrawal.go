// internal/domain/withdrawal.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalSource identifies which earnings pool a request draws from.
type WithdrawalSource string

const (
	WithdrawalSourceEarnings WithdrawalSource = "earnings"
	WithdrawalSourceReferral WithdrawalSource = "referral"
)

// WithdrawalStatus is the review state of one withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalUnderAdminReview WithdrawalStatus = "under_admin_review"
	WithdrawalApproved         WithdrawalStatus = "approved"
	WithdrawalPaid             WithdrawalStatus = "paid"
	WithdrawalRejected         WithdrawalStatus = "rejected"
	WithdrawalFailed           WithdrawalStatus = "failed"
)

var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalUnderAdminReview: {WithdrawalApproved, WithdrawalRejected},
	WithdrawalApproved:         {WithdrawalPaid, WithdrawalFailed},
}

// CanTransitionTo reports whether moving from s to next is permitted.
// paid, rejected and failed are terminal and never revisited.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	for _, allowed := range withdrawalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s WithdrawalStatus) IsTerminal() bool {
	return len(withdrawalTransitions[s]) == 0
}

// Withdrawal is one user request to move funds off the platform. Creating it
// locks Amount in the wallet; NetAmount is what actually leaves the balance
// on approval, the difference (charges + tds) stays as platform revenue.
type Withdrawal struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal  `db:"amount" json:"amount"` // requested, gross
	Source    WithdrawalSource `db:"source" json:"source"`
	Charges   decimal.Decimal  `db:"charges" json:"charges"`
	TDS       decimal.Decimal  `db:"tds" json:"tds"`
	NetAmount decimal.Decimal  `db:"net_amount" json:"net_amount"`
	Status    WithdrawalStatus `db:"status" json:"status"`
	Reason    string           `db:"reason" json:"reason,omitempty"`
	PaidAt    *time.Time       `db:"paid_at" json:"paid_at,omitempty"`
	RRN       string           `db:"rrn" json:"rrn,omitempty"`
	Gateway   string           `db:"gateway" json:"gateway,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
