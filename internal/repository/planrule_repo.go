// internal/repository/planrule_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// PlanRuleRepository defines the interface for plan rule data operations.
// The transactional core only consumes lookups; CRUD lifecycle lives in the
// plan rule service.
type PlanRuleRepository interface {
	// CreatePlanRule inserts a new rule version.
	CreatePlanRule(ctx context.Context, q DBExecutor, rule *domain.PlanRule) error
	// GetActivePlanRule retrieves the single active rule.
	GetActivePlanRule(ctx context.Context, q DBExecutor) (*domain.PlanRule, error)
	// GetPlanRuleByVersion retrieves the rule a given investment was created
	// under.
	GetPlanRuleByVersion(ctx context.Context, q DBExecutor, version int) (*domain.PlanRule, error)
	// MaxVersion returns the highest version number present, 0 when none.
	MaxVersion(ctx context.Context, q DBExecutor) (int, error)
	// DeactivateAll clears the active flag on every rule.
	DeactivateAll(ctx context.Context, q DBExecutor) error
	// SetActive marks one rule active.
	SetActive(ctx context.Context, q DBExecutor, id int64) error
}
