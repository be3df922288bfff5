// internal/service/planrule_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// PlanRuleService manages the versioned interest rule table. Rules are
// append-only: a change is a new version, never an edit, so investments that
// snapshotted an older version keep resolving against it.
type PlanRuleService interface {
	// Create validates and inserts a new rule with version = max + 1. The new
	// rule is created inactive.
	Create(ctx context.Context, rule *domain.PlanRule) (*domain.PlanRule, error)
	// Activate makes the given rule the single active one.
	Activate(ctx context.Context, ruleID int64) error
	GetActive(ctx context.Context) (*domain.PlanRule, error)
	GetByVersion(ctx context.Context, version int) (*domain.PlanRule, error)
}

type planRuleService struct {
	dbBeginner   db.DBTxBeginner
	dbExecutor   repository.DBExecutor
	planRuleRepo repository.PlanRuleRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewPlanRuleService creates a new instance of PlanRuleService.
func NewPlanRuleService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	planRuleRepo repository.PlanRuleRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) PlanRuleService {
	return &planRuleService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		planRuleRepo: planRuleRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

func (s *planRuleService) Create(ctx context.Context, rule *domain.PlanRule) (*domain.PlanRule, error) {
	if rule.Name == "" {
		return nil, util.ErrInvalidInput
	}
	if rule.MinAmount.IsNegative() || rule.SpecialMin.IsNegative() {
		return nil, util.ErrInvalidInput
	}
	if rule.AdminCharge.IsNegative() || rule.Booster.IsNegative() || rule.SpecialRate.IsNegative() {
		return nil, util.ErrInvalidInput
	}
	if err := rule.Bands.Validate(); err != nil {
		return nil, fmt.Errorf("create plan rule: invalid bands: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create plan rule: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create plan rule: transaction controller does not implement DBExecutor")
	}

	maxVersion, err := s.planRuleRepo.MaxVersion(ctx, txExecutor)
	if err != nil {
		return nil, fmt.Errorf("create plan rule: %w", err)
	}

	now := time.Now().UTC()
	rule.Version = maxVersion + 1
	rule.Active = false
	rule.CreatedAt = now
	if rule.EffectiveFrom.IsZero() {
		rule.EffectiveFrom = now
	}
	if err := s.planRuleRepo.CreatePlanRule(ctx, txExecutor, rule); err != nil {
		return nil, fmt.Errorf("create plan rule: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create plan rule: failed to commit transaction: %w", err)
	}
	return rule, nil
}

func (s *planRuleService) Activate(ctx context.Context, ruleID int64) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("activate plan rule: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("activate plan rule: transaction controller does not implement DBExecutor")
	}

	if err := s.planRuleRepo.DeactivateAll(ctx, txExecutor); err != nil {
		return fmt.Errorf("activate plan rule: %w", err)
	}
	if err := s.planRuleRepo.SetActive(ctx, txExecutor, ruleID); err != nil {
		return fmt.Errorf("activate plan rule: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("activate plan rule: failed to commit transaction: %w", err)
	}
	return nil
}

func (s *planRuleService) GetActive(ctx context.Context) (*domain.PlanRule, error) {
	return s.planRuleRepo.GetActivePlanRule(ctx, s.dbExecutor)
}

func (s *planRuleService) GetByVersion(ctx context.Context, version int) (*domain.PlanRule, error) {
	return s.planRuleRepo.GetPlanRuleByVersion(ctx, s.dbExecutor, version)
}
