// internal/repository/postgres/planrule_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

const planRuleColumns = `id, name, min_amount, special_min, bands, special_rate, admin_charge, booster, active, version, effective_from, created_at`

// PlanRuleRepository implements repository.PlanRuleRepository for PostgreSQL.
type PlanRuleRepository struct{}

// NewPlanRuleRepository creates a new PlanRuleRepository.
func NewPlanRuleRepository(db *sqlx.DB) repository.PlanRuleRepository {
	return &PlanRuleRepository{}
}

// CreatePlanRule inserts a new rule version.
func (r *PlanRuleRepository) CreatePlanRule(ctx context.Context, q repository.DBExecutor, rule *domain.PlanRule) error {
	query := `INSERT INTO plan_rules (name, min_amount, special_min, bands, special_rate, admin_charge, booster, active, version, effective_from, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		rule.Name, rule.MinAmount, rule.SpecialMin, rule.Bands,
		rule.SpecialRate, rule.AdminCharge, rule.Booster,
		rule.Active, rule.Version, rule.EffectiveFrom, rule.CreatedAt,
	).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("failed to create plan rule: %w", err)
	}
	return nil
}

// GetActivePlanRule retrieves the single active rule.
func (r *PlanRuleRepository) GetActivePlanRule(ctx context.Context, q repository.DBExecutor) (*domain.PlanRule, error) {
	var rule domain.PlanRule
	query := `SELECT ` + planRuleColumns + ` FROM plan_rules WHERE active = TRUE LIMIT 1`
	err := q.GetContext(ctx, &rule, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPlanRuleNotFound
		}
		return nil, fmt.Errorf("failed to get active plan rule: %w", err)
	}
	return &rule, nil
}

// GetPlanRuleByVersion retrieves the rule for a given version snapshot.
func (r *PlanRuleRepository) GetPlanRuleByVersion(ctx context.Context, q repository.DBExecutor, version int) (*domain.PlanRule, error) {
	var rule domain.PlanRule
	query := `SELECT ` + planRuleColumns + ` FROM plan_rules WHERE version = $1`
	err := q.GetContext(ctx, &rule, query, version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPlanRuleNotFound
		}
		return nil, fmt.Errorf("failed to get plan rule version %d: %w", version, err)
	}
	return &rule, nil
}

// MaxVersion returns the highest version number present, 0 when none.
func (r *PlanRuleRepository) MaxVersion(ctx context.Context, q repository.DBExecutor) (int, error) {
	var version int
	query := `SELECT COALESCE(MAX(version), 0) FROM plan_rules`
	if err := q.GetContext(ctx, &version, query); err != nil {
		return 0, fmt.Errorf("failed to get max plan rule version: %w", err)
	}
	return version, nil
}

// DeactivateAll clears the active flag on every rule.
func (r *PlanRuleRepository) DeactivateAll(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, `UPDATE plan_rules SET active = FALSE WHERE active = TRUE`); err != nil {
		return fmt.Errorf("failed to deactivate plan rules: %w", err)
	}
	return nil
}

// SetActive marks one rule active.
func (r *PlanRuleRepository) SetActive(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `UPDATE plan_rules SET active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to activate plan rule %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected activating plan rule %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrPlanRuleNotFound
	}
	return nil
}
