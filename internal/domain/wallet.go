// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"investflow/internal/util"
)

// Wallet holds the mutable money fields embedded in a user record.
// locked is an independent hold counter drawn against balance; the enforced
// invariant is available = balance - locked >= 0 after every committed
// operation, checked at the validation layer rather than the schema.
type Wallet struct {
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	Locked      decimal.Decimal `db:"locked" json:"locked"`
	TotalProfit decimal.Decimal `db:"total_profit" json:"total_profit"`
	TotalPayout decimal.Decimal `db:"total_payout" json:"total_payout"`
}

// Available returns the spendable portion of the balance.
func (w Wallet) Available() decimal.Decimal {
	return w.Balance.Sub(w.Locked)
}

// OperationKind enumerates the supported wallet mutations.
type OperationKind string

const (
	OpCredit           OperationKind = "credit"
	OpDebit            OperationKind = "debit"
	OpLock             OperationKind = "lock"
	OpUnlock           OperationKind = "unlock"
	OpSetBalance       OperationKind = "set_balance"
	OpSetLocked        OperationKind = "set_locked"
	OpAddProfit        OperationKind = "add_profit"
	OpAddPayoutBook    OperationKind = "add_payout_book"
	OpRemovePayoutBook OperationKind = "remove_payout_book"
	// OpPayoutCredit is the composite applied when a scheduled payout settles:
	// balance, totalProfit and totalPayout all increase by the net amount.
	OpPayoutCredit OperationKind = "payout_credit"
	// OpAudit records a zero-amount entry for status-only transitions so the
	// ledger keeps a full trail even when no money moves.
	OpAudit OperationKind = "audit"
)

// WalletOperation describes one requested mutation. Amount carries the target
// value for the set_* kinds.
type WalletOperation struct {
	Kind         OperationKind
	Amount       decimal.Decimal
	Type         string // ledger entry type tag
	Note         string
	RefID        string
	InvestmentID *int64
	WithdrawalID *int64
	PayoutID     *int64
	Meta         LedgerMeta
}

// ApplyWalletOperation computes the effect of op on w and the ledger entry
// describing it. It is pure: on any validation failure the returned wallet is
// the zero value and no entry is produced, so a failed call can never leak
// partial state. Persistence and transactionality belong to the caller.
func ApplyWalletOperation(w Wallet, op WalletOperation, now time.Time) (Wallet, LedgerEntry, error) {
	entry := LedgerEntry{
		Type:         op.Type,
		Note:         op.Note,
		RefID:        op.RefID,
		InvestmentID: op.InvestmentID,
		WithdrawalID: op.WithdrawalID,
		PayoutID:     op.PayoutID,
		Meta:         op.Meta,
		CreatedAt:    now,

		BalanceBefore: w.Balance,
		LockedBefore:  w.Locked,
	}

	next := w
	amt := op.Amount

	switch op.Kind {
	case OpCredit:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		next.Balance = w.Balance.Add(amt)
		entry.Direction = DirectionCredit
		entry.Amount = amt

	case OpDebit:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		if amt.GreaterThan(w.Available()) {
			return Wallet{}, LedgerEntry{}, util.ErrInsufficientFunds
		}
		next.Balance = w.Balance.Sub(amt)
		entry.Direction = DirectionDebit
		entry.Amount = amt

	case OpLock:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		if amt.GreaterThan(w.Available()) {
			return Wallet{}, LedgerEntry{}, util.ErrInsufficientFunds
		}
		next.Locked = w.Locked.Add(amt)
		entry.Direction = DirectionNone
		entry.Amount = amt

	case OpUnlock:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		if amt.GreaterThan(w.Locked) {
			return Wallet{}, LedgerEntry{}, util.ErrInsufficientLocked
		}
		next.Locked = w.Locked.Sub(amt)
		entry.Direction = DirectionNone
		entry.Amount = amt

	case OpSetBalance:
		if amt.IsNegative() {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		if amt.LessThan(w.Locked) {
			// Would push available below zero.
			return Wallet{}, LedgerEntry{}, util.ErrInsufficientFunds
		}
		next.Balance = amt
		diff := amt.Sub(w.Balance)
		switch {
		case diff.IsPositive():
			entry.Direction = DirectionCredit
		case diff.IsNegative():
			entry.Direction = DirectionDebit
		default:
			entry.Direction = DirectionNone
		}
		entry.Amount = diff.Abs()

	case OpSetLocked:
		if amt.IsNegative() {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		if amt.GreaterThan(w.Balance) {
			return Wallet{}, LedgerEntry{}, util.ErrInsufficientFunds
		}
		next.Locked = amt
		diff := amt.Sub(w.Locked)
		// Inverse sense: raising the hold removes funds from the free pool.
		switch {
		case diff.IsPositive():
			entry.Direction = DirectionDebit
		case diff.IsNegative():
			entry.Direction = DirectionCredit
		default:
			entry.Direction = DirectionNone
		}
		entry.Amount = diff.Abs()

	case OpAddProfit:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		next.Balance = w.Balance.Add(amt)
		next.TotalProfit = w.TotalProfit.Add(amt)
		entry.Direction = DirectionCredit
		entry.Amount = amt

	case OpAddPayoutBook:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		next.TotalPayout = w.TotalPayout.Add(amt)
		entry.Direction = DirectionNone
		entry.Amount = amt

	case OpRemovePayoutBook:
		if amt.LessThanOrEqual(decimal.Zero) || amt.GreaterThan(w.TotalPayout) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		next.TotalPayout = w.TotalPayout.Sub(amt)
		entry.Direction = DirectionNone
		entry.Amount = amt

	case OpPayoutCredit:
		if amt.LessThanOrEqual(decimal.Zero) {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		next.Balance = w.Balance.Add(amt)
		next.TotalProfit = w.TotalProfit.Add(amt)
		next.TotalPayout = w.TotalPayout.Add(amt)
		entry.Direction = DirectionCredit
		entry.Amount = amt

	case OpAudit:
		if !amt.IsZero() {
			return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
		}
		entry.Direction = DirectionNone
		entry.Amount = decimal.Zero

	default:
		return Wallet{}, LedgerEntry{}, util.ErrInvalidInput
	}

	if next.Available().IsNegative() {
		return Wallet{}, LedgerEntry{}, util.ErrInsufficientFunds
	}

	entry.BalanceAfter = next.Balance
	entry.LockedAfter = next.Locked
	return next, entry, nil
}
