// internal/service/payout_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"investflow/internal/domain"
	"investflow/internal/metrics"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// PayoutService drives the status machine of scheduled disbursements. Every
// transition, including the bookkeeping-only ones, writes a ledger entry so
// the audit trail is complete.
type PayoutService interface {
	MarkProcessing(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error)
	// MarkPaid settles a payout: it credits the net amount to the user,
	// bumping both totalPayout and totalProfit. This is the only path by
	// which totalProfit grows in the normal flow.
	MarkPaid(ctx context.Context, payoutID, adminID int64, rrn, gateway string) (*domain.Payout, error)
	MarkFailed(ctx context.Context, payoutID, adminID int64, reason string) (*domain.Payout, error)
	MarkOnHold(ctx context.Context, payoutID, adminID int64, reason string) (*domain.Payout, error)
	// Reschedule returns a failed or on-hold payout to scheduled.
	Reschedule(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error)
	// Reprocess moves a failed or on-hold payout into reprocessing.
	Reprocess(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error)
	ListByInvestment(ctx context.Context, investmentID int64) ([]domain.Payout, error)
}

type payoutService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	payoutRepo     repository.PayoutRepository
	investmentRepo repository.InvestmentRepository
	wallet         WalletService
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewPayoutService creates a new instance of PayoutService.
func NewPayoutService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	payoutRepo repository.PayoutRepository,
	investmentRepo repository.InvestmentRepository,
	wallet WalletService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) PayoutService {
	return &payoutService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		payoutRepo:     payoutRepo,
		investmentRepo: investmentRepo,
		wallet:         wallet,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

func (s *payoutService) MarkProcessing(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error) {
	return s.bookkeepingTransition(ctx, payoutID, adminID, domain.PayoutProcessing, "payout processing")
}

func (s *payoutService) MarkPaid(ctx context.Context, payoutID, adminID int64, rrn, gateway string) (*domain.Payout, error) {
	if rrn == "" || gateway == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("mark payout paid: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("mark payout paid: transaction controller does not implement DBExecutor")
	}

	p, err := s.payoutRepo.GetPayoutForUpdate(ctx, txExecutor, payoutID)
	if err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}
	if !p.Status.CanTransitionTo(domain.PayoutPaid) {
		return nil, fmt.Errorf("pay from %s: %w", p.Status, util.ErrInvalidStateTransition)
	}

	inv, err := s.investmentRepo.GetInvestmentByID(ctx, txExecutor, p.InvestmentID)
	if err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}

	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, inv.UserID, domain.WalletOperation{
		Kind:         domain.OpPayoutCredit,
		Amount:       p.NetPayout,
		Type:         domain.EntryTypePayoutCredit,
		Note:         fmt.Sprintf("payout month %d settled", p.MonthNo),
		InvestmentID: &p.InvestmentID,
		PayoutID:     &p.ID,
		Meta: domain.LedgerMeta{
			AdminID: &adminID,
			RRN:     rrn,
			Gateway: gateway,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}

	now := time.Now().UTC()
	p.Status = domain.PayoutPaid
	p.PaidAt = &now
	p.RRN = rrn
	p.Gateway = gateway
	if err := s.payoutRepo.UpdatePayout(ctx, txExecutor, p); err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}

	// Once every payout is terminally paid the investment completes.
	unpaid, err := s.payoutRepo.CountUnpaidByInvestment(ctx, txExecutor, p.InvestmentID)
	if err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}
	if unpaid == 0 {
		inv, err := s.investmentRepo.GetInvestmentForUpdate(ctx, txExecutor, p.InvestmentID)
		if err != nil {
			return nil, fmt.Errorf("mark payout paid: %w", err)
		}
		if inv.Status.CanTransitionTo(domain.InvestmentCompleted) {
			inv.Status = domain.InvestmentCompleted
			if err := s.investmentRepo.UpdateInvestment(ctx, txExecutor, inv); err != nil {
				return nil, fmt.Errorf("mark payout paid: %w", err)
			}
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("mark payout paid: failed to commit transaction: %w", err)
	}

	metrics.PayoutsPaidTotal.Inc()
	metrics.LedgerEntriesTotal.WithLabelValues(domain.EntryTypePayoutCredit, string(domain.DirectionCredit)).Inc()
	return p, nil
}

func (s *payoutService) MarkFailed(ctx context.Context, payoutID, adminID int64, reason string) (*domain.Payout, error) {
	if reason == "" {
		return nil, util.ErrInvalidInput
	}
	return s.bookkeepingTransitionWithRemarks(ctx, payoutID, adminID, domain.PayoutFailed, reason)
}

func (s *payoutService) MarkOnHold(ctx context.Context, payoutID, adminID int64, reason string) (*domain.Payout, error) {
	if reason == "" {
		return nil, util.ErrInvalidInput
	}
	return s.bookkeepingTransitionWithRemarks(ctx, payoutID, adminID, domain.PayoutOnHold, reason)
}

func (s *payoutService) Reschedule(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error) {
	return s.bookkeepingTransition(ctx, payoutID, adminID, domain.PayoutScheduled, "payout rescheduled")
}

func (s *payoutService) Reprocess(ctx context.Context, payoutID, adminID int64) (*domain.Payout, error) {
	return s.bookkeepingTransition(ctx, payoutID, adminID, domain.PayoutReprocessing, "payout reprocessing")
}

func (s *payoutService) ListByInvestment(ctx context.Context, investmentID int64) ([]domain.Payout, error) {
	return s.payoutRepo.ListPayoutsByInvestment(ctx, s.dbExecutor, investmentID)
}

func (s *payoutService) bookkeepingTransition(ctx context.Context, payoutID, adminID int64, next domain.PayoutStatus, note string) (*domain.Payout, error) {
	return s.doTransition(ctx, payoutID, adminID, next, note, "")
}

func (s *payoutService) bookkeepingTransitionWithRemarks(ctx context.Context, payoutID, adminID int64, next domain.PayoutStatus, reason string) (*domain.Payout, error) {
	return s.doTransition(ctx, payoutID, adminID, next, reason, reason)
}

// doTransition applies a status change that moves no money. A zero-amount
// audit entry is still written so every payout status change appears in the
// ledger.
func (s *payoutService) doTransition(ctx context.Context, payoutID, adminID int64, next domain.PayoutStatus, note, remarks string) (*domain.Payout, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("payout transition: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("payout transition: transaction controller does not implement DBExecutor")
	}

	p, err := s.payoutRepo.GetPayoutForUpdate(ctx, txExecutor, payoutID)
	if err != nil {
		return nil, fmt.Errorf("payout transition: %w", err)
	}
	if !p.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("transition %s -> %s: %w", p.Status, next, util.ErrInvalidStateTransition)
	}

	inv, err := s.investmentRepo.GetInvestmentByID(ctx, txExecutor, p.InvestmentID)
	if err != nil {
		return nil, fmt.Errorf("payout transition: %w", err)
	}

	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, inv.UserID, domain.WalletOperation{
		Kind:         domain.OpAudit,
		Type:         domain.EntryTypePayoutStatus,
		Note:         fmt.Sprintf("%s (month %d, %s -> %s)", note, p.MonthNo, p.Status, next),
		InvestmentID: &p.InvestmentID,
		PayoutID:     &p.ID,
		Meta:         domain.LedgerMeta{AdminID: &adminID, Reason: remarks},
	})
	if err != nil {
		return nil, fmt.Errorf("payout transition: %w", err)
	}

	p.Status = next
	if remarks != "" {
		p.Remarks = remarks
	}
	if err := s.payoutRepo.UpdatePayout(ctx, txExecutor, p); err != nil {
		return nil, fmt.Errorf("payout transition: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("payout transition: failed to commit transaction: %w", err)
	}
	return p, nil
}
