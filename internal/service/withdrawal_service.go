// internal/service/withdrawal_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"investflow/internal/domain"
	"investflow/internal/metrics"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// WithdrawalPolicy holds the platform fee knobs applied when a withdrawal is
// requested.
type WithdrawalPolicy struct {
	MinAmount decimal.Decimal // request floor
	ChargePct decimal.Decimal // fraction of amount, e.g. 0.02
	ChargeCap decimal.Decimal // absolute cap on charges
	TDSPct    decimal.Decimal // withholding fraction, may be zero
}

// Netting computes charges, tds and the net amount for a requested gross
// amount. netAmount = amount - charges - tds must be positive for the
// request to be accepted.
func (p WithdrawalPolicy) Netting(amount decimal.Decimal) (charges, tds, net decimal.Decimal) {
	charges = amount.Mul(p.ChargePct)
	if charges.GreaterThan(p.ChargeCap) {
		charges = p.ChargeCap
	}
	charges = charges.Round(2)
	tds = amount.Mul(p.TDSPct).Round(2)
	net = amount.Sub(charges).Sub(tds).Round(2)
	return charges, tds, net
}

// WithdrawalService runs the withdrawal request workflow. Creating a request
// locks the gross amount; every later transition pairs the status change with
// its wallet effect in one transaction.
type WithdrawalService interface {
	Create(ctx context.Context, userID int64, amount decimal.Decimal, source domain.WithdrawalSource) (*domain.Withdrawal, error)
	// Approve debits the net amount and releases the full locked hold; the
	// difference (charges + tds) stays in balance as platform revenue.
	Approve(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error)
	Reject(ctx context.Context, withdrawalID, adminID int64, reason string) (*domain.Withdrawal, error)
	MarkPaid(ctx context.Context, withdrawalID, adminID int64, rrn, gateway string) (*domain.Withdrawal, error)
	// MarkFailed refunds the net amount debited at approval. Only valid from
	// approved; the withdrawal is never reopened.
	MarkFailed(ctx context.Context, withdrawalID, adminID int64, reason string) (*domain.Withdrawal, error)
	Get(ctx context.Context, withdrawalID int64) (*domain.Withdrawal, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Withdrawal, error)
}

type withdrawalService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	withdrawalRepo repository.WithdrawalRepository
	wallet         WalletService
	policy         WithdrawalPolicy
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewWithdrawalService creates a new instance of WithdrawalService.
func NewWithdrawalService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	withdrawalRepo repository.WithdrawalRepository,
	wallet WalletService,
	policy WithdrawalPolicy,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WithdrawalService {
	return &withdrawalService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		withdrawalRepo: withdrawalRepo,
		wallet:         wallet,
		policy:         policy,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

func (s *withdrawalService) Create(ctx context.Context, userID int64, amount decimal.Decimal, source domain.WithdrawalSource) (*domain.Withdrawal, error) {
	if amount.LessThan(s.policy.MinAmount) {
		return nil, util.ErrInvalidInput
	}
	if source != domain.WithdrawalSourceEarnings && source != domain.WithdrawalSourceReferral {
		return nil, util.ErrInvalidInput
	}

	charges, tds, net := s.policy.Netting(amount)
	if net.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create withdrawal: transaction controller does not implement DBExecutor")
	}

	now := time.Now().UTC()
	wd := &domain.Withdrawal{
		UserID:    userID,
		Amount:    amount,
		Source:    source,
		Charges:   charges,
		TDS:       tds,
		NetAmount: net,
		Status:    domain.WithdrawalUnderAdminReview,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.withdrawalRepo.CreateWithdrawal(ctx, txExecutor, wd); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	// Lock the gross amount; fails with ErrInsufficientFunds when the
	// request exceeds available balance.
	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, userID, domain.WalletOperation{
		Kind:         domain.OpLock,
		Amount:       amount,
		Type:         domain.EntryTypeWithdrawalLock,
		Note:         "withdrawal requested",
		WithdrawalID: &wd.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create withdrawal: failed to commit transaction: %w", err)
	}
	return wd, nil
}

func (s *withdrawalService) Approve(ctx context.Context, withdrawalID, adminID int64) (*domain.Withdrawal, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("approve withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("approve withdrawal: transaction controller does not implement DBExecutor")
	}

	wd, err := s.withdrawalRepo.GetWithdrawalForUpdate(ctx, txExecutor, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}
	if !wd.Status.CanTransitionTo(domain.WithdrawalApproved) {
		return nil, fmt.Errorf("approve from %s: %w", wd.Status, util.ErrInvalidStateTransition)
	}

	// Release the hold first so the subsequent net debit draws on freed
	// balance; both entries commit together or not at all.
	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, wd.UserID, domain.WalletOperation{
		Kind:         domain.OpUnlock,
		Amount:       wd.Amount,
		Type:         domain.EntryTypeWithdrawalUnlock,
		Note:         "withdrawal approved: hold released",
		WithdrawalID: &wd.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID},
	})
	if err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}

	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, wd.UserID, domain.WalletOperation{
		Kind:         domain.OpDebit,
		Amount:       wd.NetAmount,
		Type:         domain.EntryTypeWithdrawalDebit,
		Note:         "withdrawal approved: net amount debited",
		WithdrawalID: &wd.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID},
	})
	if err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}

	wd.Status = domain.WithdrawalApproved
	if err := s.withdrawalRepo.UpdateWithdrawal(ctx, txExecutor, wd); err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("approve withdrawal: failed to commit transaction: %w", err)
	}
	return wd, nil
}

func (s *withdrawalService) Reject(ctx context.Context, withdrawalID, adminID int64, reason string) (*domain.Withdrawal, error) {
	if reason == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("reject withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("reject withdrawal: transaction controller does not implement DBExecutor")
	}

	wd, err := s.withdrawalRepo.GetWithdrawalForUpdate(ctx, txExecutor, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("reject withdrawal: %w", err)
	}
	if !wd.Status.CanTransitionTo(domain.WithdrawalRejected) {
		return nil, fmt.Errorf("reject from %s: %w", wd.Status, util.ErrInvalidStateTransition)
	}

	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, wd.UserID, domain.WalletOperation{
		Kind:         domain.OpUnlock,
		Amount:       wd.Amount,
		Type:         domain.EntryTypeWithdrawalUnlock,
		Note:         "withdrawal rejected: hold released",
		WithdrawalID: &wd.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID, Reason: reason},
	})
	if err != nil {
		return nil, fmt.Errorf("reject withdrawal: %w", err)
	}

	wd.Status = domain.WithdrawalRejected
	wd.Reason = reason
	if err := s.withdrawalRepo.UpdateWithdrawal(ctx, txExecutor, wd); err != nil {
		return nil, fmt.Errorf("reject withdrawal: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("reject withdrawal: failed to commit transaction: %w", err)
	}

	metrics.WithdrawalsTotal.WithLabelValues(string(domain.WithdrawalRejected)).Inc()
	return wd, nil
}

func (s *withdrawalService) MarkPaid(ctx context.Context, withdrawalID, adminID int64, rrn, gateway string) (*domain.Withdrawal, error) {
	if rrn == "" || gateway == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal paid: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("mark withdrawal paid: transaction controller does not implement DBExecutor")
	}

	wd, err := s.withdrawalRepo.GetWithdrawalForUpdate(ctx, txExecutor, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal paid: %w", err)
	}
	if !wd.Status.CanTransitionTo(domain.WithdrawalPaid) {
		return nil, fmt.Errorf("mark paid from %s: %w", wd.Status, util.ErrInvalidStateTransition)
	}

	// Balance was already debited at approval; this only books the payout.
	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, wd.UserID, domain.WalletOperation{
		Kind:         domain.OpAddPayoutBook,
		Amount:       wd.NetAmount,
		Type:         domain.EntryTypeWithdrawalPayout,
		Note:         "withdrawal settled",
		WithdrawalID: &wd.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID, RRN: rrn, Gateway: gateway},
	})
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal paid: %w", err)
	}

	now := time.Now().UTC()
	wd.Status = domain.WithdrawalPaid
	wd.PaidAt = &now
	wd.RRN = rrn
	wd.Gateway = gateway
	if err := s.withdrawalRepo.UpdateWithdrawal(ctx, txExecutor, wd); err != nil {
		return nil, fmt.Errorf("mark withdrawal paid: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("mark withdrawal paid: failed to commit transaction: %w", err)
	}

	metrics.WithdrawalsTotal.WithLabelValues(string(domain.WithdrawalPaid)).Inc()
	return wd, nil
}

func (s *withdrawalService) MarkFailed(ctx context.Context, withdrawalID, adminID int64, reason string) (*domain.Withdrawal, error) {
	if reason == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal failed: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("mark withdrawal failed: transaction controller does not implement DBExecutor")
	}

	wd, err := s.withdrawalRepo.GetWithdrawalForUpdate(ctx, txExecutor, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal failed: %w", err)
	}
	if wd.Status != domain.WithdrawalApproved {
		return nil, fmt.Errorf("mark failed from %s: %w", wd.Status, util.ErrInvalidStateTransition)
	}

	// Reverse the approval debit. The withdrawal itself stays terminal.
	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, wd.UserID, domain.WalletOperation{
		Kind:         domain.OpCredit,
		Amount:       wd.NetAmount,
		Type:         domain.EntryTypeWithdrawalRefund,
		Note:         "withdrawal failed: net amount refunded",
		WithdrawalID: &wd.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID, Reason: reason},
	})
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal failed: %w", err)
	}

	wd.Status = domain.WithdrawalFailed
	wd.Reason = reason
	if err := s.withdrawalRepo.UpdateWithdrawal(ctx, txExecutor, wd); err != nil {
		return nil, fmt.Errorf("mark withdrawal failed: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("mark withdrawal failed: failed to commit transaction: %w", err)
	}

	metrics.WithdrawalsTotal.WithLabelValues(string(domain.WithdrawalFailed)).Inc()
	return wd, nil
}

func (s *withdrawalService) Get(ctx context.Context, withdrawalID int64) (*domain.Withdrawal, error) {
	return s.withdrawalRepo.GetWithdrawalByID(ctx, s.dbExecutor, withdrawalID)
}

func (s *withdrawalService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.ListWithdrawalsByUser(ctx, s.dbExecutor, userID, limit, offset)
}
