// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input provided")
	ErrInsufficientFunds      = errors.New("insufficient available balance")
	ErrInsufficientLocked     = errors.New("insufficient locked funds")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvestmentNotFound     = errors.New("investment not found")
	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrPayoutNotFound         = errors.New("payout not found")
	ErrPlanRuleNotFound       = errors.New("plan rule not found")
	ErrRateLimited            = errors.New("too many requests")
	ErrDuplicateEntry         = errors.New("duplicate entry")
)

// IsError checks whether err matches the target sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
