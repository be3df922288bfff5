// internal/domain/ledger.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates how a ledger entry affected the balance field.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
	// DirectionNone marks bookkeeping-only entries: lock/unlock moves between
	// balance and locked, counter updates, and zero-amount audit entries.
	DirectionNone Direction = "none"
)

// Ledger entry type tags. The column is free-form, but the well-known ones
// are declared here so services and audits agree on spelling.
const (
	EntryTypeInvestmentCredit  = "investment_credit"
	EntryTypePayoutCredit      = "payout_credit"
	EntryTypePayoutStatus      = "payout_status"
	EntryTypeWithdrawalLock    = "withdrawal_lock"
	EntryTypeWithdrawalDebit   = "withdrawal_debit"
	EntryTypeWithdrawalUnlock  = "withdrawal_unlock"
	EntryTypeWithdrawalRefund  = "withdrawal_refund"
	EntryTypeWithdrawalPayout  = "withdrawal_payout"
	EntryTypeReferralCredit    = "referral_credit"
	EntryTypeAdminWalletCredit = "admin_wallet_credit"
	EntryTypeAdminWalletDebit  = "admin_wallet_debit"
	EntryTypeAdminAddProfit    = "admin_add_profit"
)

// LedgerMeta is the structured audit payload attached to a ledger entry.
// Stored as JSONB; all fields optional.
type LedgerMeta struct {
	AdminID      *int64 `json:"admin_id,omitempty"`
	SourceUserID *int64 `json:"source_user_id,omitempty"`
	PlanName     string `json:"plan_name,omitempty"`
	Gateway      string `json:"gateway,omitempty"`
	RRN          string `json:"rrn,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Value implements driver.Valuer so LedgerMeta persists as JSONB.
func (m LedgerMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *LedgerMeta) Scan(src interface{}) error {
	if src == nil {
		*m = LedgerMeta{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("ledger meta: cannot scan %T", src)
	}
	return json.Unmarshal(b, m)
}

// LedgerEntry is an append-only record of one wallet mutation, with
// before/after snapshots of both balance and locked for reconciliation.
// Entries are created inside the same transaction as the wallet update and
// are never mutated or deleted afterward.
type LedgerEntry struct {
	ID           int64           `db:"id" json:"id"`
	UserID       int64           `db:"user_id" json:"user_id"`
	InvestmentID *int64          `db:"investment_id" json:"investment_id,omitempty"`
	WithdrawalID *int64          `db:"withdrawal_id" json:"withdrawal_id,omitempty"`
	PayoutID     *int64          `db:"payout_id" json:"payout_id,omitempty"`
	Type         string          `db:"type" json:"type"`
	Direction    Direction       `db:"direction" json:"direction"`
	Amount       decimal.Decimal `db:"amount" json:"amount"` // always >= 0; direction encodes the sign

	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	LockedBefore  decimal.Decimal `db:"locked_before" json:"locked_before"`
	LockedAfter   decimal.Decimal `db:"locked_after" json:"locked_after"`

	Note      string     `db:"note" json:"note,omitempty"`
	RefID     string     `db:"ref_id" json:"ref_id,omitempty"`
	Meta      LedgerMeta `db:"meta" json:"meta"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
