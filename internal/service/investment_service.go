// internal/service/investment_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"investflow/internal/domain"
	"investflow/internal/metrics"
	"investflow/internal/plan"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// InvestmentService orchestrates the investment lifecycle: creation,
// proof-of-payment, admin review, activation with schedule generation, and
// terminal states.
type InvestmentService interface {
	Create(ctx context.Context, userID int64, principal decimal.Decimal, method string, monthDuration int, boosterApplied bool) (*domain.Investment, error)
	SubmitProof(ctx context.Context, investmentID int64, proofURL, utr string) (*domain.Investment, error)
	// Approve activates the investment: it generates the full payout schedule,
	// credits the principal to the user's balance and flips the status, all in
	// one transaction.
	Approve(ctx context.Context, investmentID, adminID int64) (*domain.Investment, error)
	Reject(ctx context.Context, investmentID, adminID int64, remarks string) (*domain.Investment, error)
	Cancel(ctx context.Context, investmentID, adminID int64, remarks string) (*domain.Investment, error)
	Get(ctx context.Context, investmentID int64) (*domain.Investment, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Investment, error)
}

type investmentService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	investmentRepo repository.InvestmentRepository
	payoutRepo     repository.PayoutRepository
	planRuleRepo   repository.PlanRuleRepository
	wallet         WalletService
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewInvestmentService creates a new instance of InvestmentService.
func NewInvestmentService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	investmentRepo repository.InvestmentRepository,
	payoutRepo repository.PayoutRepository,
	planRuleRepo repository.PlanRuleRepository,
	wallet WalletService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) InvestmentService {
	return &investmentService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		investmentRepo: investmentRepo,
		payoutRepo:     payoutRepo,
		planRuleRepo:   planRuleRepo,
		wallet:         wallet,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

// Create validates the principal against the active plan rule and records a
// new investment in the initiated state, snapshotting the rule version and
// terms so later rule changes cannot alter this investment.
func (s *investmentService) Create(ctx context.Context, userID int64, principal decimal.Decimal, method string, monthDuration int, boosterApplied bool) (*domain.Investment, error) {
	if monthDuration < 1 || monthDuration > plan.MaxScheduleMonths {
		return nil, util.ErrInvalidInput
	}

	rule, err := s.planRuleRepo.GetActivePlanRule(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("create investment: %w", err)
	}
	if principal.LessThan(rule.MinAmount) {
		return nil, util.ErrInvalidInput
	}

	inv := domain.NewInvestment(userID, principal, method, *rule, monthDuration, boosterApplied)
	if err := s.investmentRepo.CreateInvestment(ctx, s.dbExecutor, inv); err != nil {
		return nil, fmt.Errorf("create investment: %w", err)
	}
	return inv, nil
}

// SubmitProof attaches the stored proof-of-payment URL and moves the
// investment to under_review. Only valid from initiated.
func (s *investmentService) SubmitProof(ctx context.Context, investmentID int64, proofURL, utr string) (*domain.Investment, error) {
	if proofURL == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("submit proof: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("submit proof: transaction controller does not implement DBExecutor")
	}

	inv, err := s.investmentRepo.GetInvestmentForUpdate(ctx, txExecutor, investmentID)
	if err != nil {
		return nil, fmt.Errorf("submit proof: %w", err)
	}
	if inv.Status != domain.InvestmentInitiated {
		return nil, fmt.Errorf("submit proof from %s: %w", inv.Status, util.ErrInvalidStateTransition)
	}

	inv.ProofURL = proofURL
	inv.UTR = utr
	inv.Status = domain.InvestmentUnderReview
	if err := s.investmentRepo.UpdateInvestment(ctx, txExecutor, inv); err != nil {
		return nil, fmt.Errorf("submit proof: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("submit proof: failed to commit transaction: %w", err)
	}
	return inv, nil
}

// Approve is the single largest atomic operation in the system: schedule
// generation, principal credit and status change all succeed or all roll
// back. A missing plan rule for the snapshotted version blocks approval so
// payouts are never generated against unknown terms.
func (s *investmentService) Approve(ctx context.Context, investmentID, adminID int64) (*domain.Investment, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("approve investment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("approve investment: transaction controller does not implement DBExecutor")
	}

	inv, err := s.investmentRepo.GetInvestmentForUpdate(ctx, txExecutor, investmentID)
	if err != nil {
		return nil, fmt.Errorf("approve investment: %w", err)
	}
	if !inv.Status.CanTransitionTo(domain.InvestmentActive) {
		return nil, fmt.Errorf("approve from %s: %w", inv.Status, util.ErrInvalidStateTransition)
	}

	rule, err := s.planRuleRepo.GetPlanRuleByVersion(ctx, txExecutor, inv.PlanVersion)
	if err != nil {
		return nil, fmt.Errorf("approve investment %d (plan version %d): %w", investmentID, inv.PlanVersion, err)
	}

	now := time.Now().UTC()
	schedule, err := plan.BuildSchedule(inv.Principal, *rule, inv.Meta.BoosterApplied, inv.Meta.MonthDuration, now, now)
	if err != nil {
		return nil, fmt.Errorf("approve investment %d: failed to build schedule: %w", investmentID, err)
	}
	if err := s.payoutRepo.CreatePayoutBatch(ctx, txExecutor, inv.ID, schedule); err != nil {
		return nil, fmt.Errorf("approve investment %d: %w", investmentID, err)
	}

	_, _, err = s.wallet.ApplyTx(ctx, txExecutor, inv.UserID, domain.WalletOperation{
		Kind:         domain.OpCredit,
		Amount:       inv.Principal,
		Type:         domain.EntryTypeInvestmentCredit,
		Note:         "investment approved",
		InvestmentID: &inv.ID,
		Meta: domain.LedgerMeta{
			AdminID:  &adminID,
			PlanName: inv.Meta.PlanName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("approve investment %d: %w", investmentID, err)
	}

	inv.Status = domain.InvestmentActive
	inv.StartedAt = &now
	if err := s.investmentRepo.UpdateInvestment(ctx, txExecutor, inv); err != nil {
		return nil, fmt.Errorf("approve investment %d: %w", investmentID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("approve investment: failed to commit transaction: %w", err)
	}

	metrics.InvestmentsActivatedTotal.Inc()
	return inv, nil
}

// Reject records remarks and moves the investment to rejected. The principal
// was never credited, so there is no wallet effect.
func (s *investmentService) Reject(ctx context.Context, investmentID, adminID int64, remarks string) (*domain.Investment, error) {
	if remarks == "" {
		return nil, util.ErrInvalidInput
	}
	return s.transition(ctx, investmentID, domain.InvestmentRejected, remarks)
}

// Cancel is the manual admin path out of an active investment.
func (s *investmentService) Cancel(ctx context.Context, investmentID, adminID int64, remarks string) (*domain.Investment, error) {
	if remarks == "" {
		return nil, util.ErrInvalidInput
	}
	return s.transition(ctx, investmentID, domain.InvestmentCancelled, remarks)
}

func (s *investmentService) transition(ctx context.Context, investmentID int64, next domain.InvestmentStatus, remarks string) (*domain.Investment, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("investment transition: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("investment transition: transaction controller does not implement DBExecutor")
	}

	inv, err := s.investmentRepo.GetInvestmentForUpdate(ctx, txExecutor, investmentID)
	if err != nil {
		return nil, fmt.Errorf("investment transition: %w", err)
	}
	if !inv.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("transition %s -> %s: %w", inv.Status, next, util.ErrInvalidStateTransition)
	}

	inv.Status = next
	inv.Remarks = remarks
	if err := s.investmentRepo.UpdateInvestment(ctx, txExecutor, inv); err != nil {
		return nil, fmt.Errorf("investment transition: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("investment transition: failed to commit transaction: %w", err)
	}
	return inv, nil
}

func (s *investmentService) Get(ctx context.Context, investmentID int64) (*domain.Investment, error) {
	return s.investmentRepo.GetInvestmentByID(ctx, s.dbExecutor, investmentID)
}

func (s *investmentService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Investment, error) {
	return s.investmentRepo.ListInvestmentsByUser(ctx, s.dbExecutor, userID, limit, offset)
}
