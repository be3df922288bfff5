// internal/domain/payout.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus is the operational state of one scheduled disbursement.
type PayoutStatus string

const (
	PayoutScheduled    PayoutStatus = "scheduled"
	PayoutProcessing   PayoutStatus = "processing"
	PayoutPaid         PayoutStatus = "paid"
	PayoutFailed       PayoutStatus = "failed"
	PayoutOnHold       PayoutStatus = "on_hold"
	PayoutReprocessing PayoutStatus = "reprocessing"
)

var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutScheduled:    {PayoutProcessing},
	PayoutProcessing:   {PayoutPaid, PayoutFailed, PayoutOnHold},
	PayoutFailed:       {PayoutScheduled, PayoutReprocessing},
	PayoutOnHold:       {PayoutScheduled, PayoutReprocessing},
	PayoutReprocessing: {PayoutPaid, PayoutFailed},
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	for _, allowed := range payoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s PayoutStatus) IsTerminal() bool {
	return len(payoutTransitions[s]) == 0
}

// Payout is one scheduled monthly disbursement belonging to exactly one
// investment. All payouts for an investment are created atomically when the
// investment is approved; afterwards each moves through its status machine
// independently.
type Payout struct {
	ID           int64           `db:"id" json:"id"`
	InvestmentID int64           `db:"investment_id" json:"investment_id"`
	MonthNo      int             `db:"month_no" json:"month_no"` // 1-based within the investment
	DueDate      time.Time       `db:"due_date" json:"due_date"`
	GrossPayout  decimal.Decimal `db:"gross_payout" json:"gross_payout"`
	AdminCharge  decimal.Decimal `db:"admin_charge" json:"admin_charge"`
	Booster      decimal.Decimal `db:"booster" json:"booster"`
	TDS          decimal.Decimal `db:"tds" json:"tds"`
	NetPayout    decimal.Decimal `db:"net_payout" json:"net_payout"`
	Status       PayoutStatus    `db:"status" json:"status"`
	PaidAt       *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	RRN          string          `db:"rrn" json:"rrn,omitempty"`
	Gateway      string          `db:"gateway" json:"gateway,omitempty"`
	Remarks      string          `db:"remarks" json:"remarks,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
