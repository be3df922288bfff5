// internal/domain/investment.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus is the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentInitiated   InvestmentStatus = "initiated"
	InvestmentUnderReview InvestmentStatus = "under_review"
	InvestmentActive      InvestmentStatus = "active"
	InvestmentRejected    InvestmentStatus = "rejected"
	InvestmentCompleted   InvestmentStatus = "completed"
	InvestmentCancelled   InvestmentStatus = "cancelled"
)

// investmentTransitions is the single source of truth for allowed moves.
var investmentTransitions = map[InvestmentStatus][]InvestmentStatus{
	InvestmentInitiated:   {InvestmentUnderReview, InvestmentActive, InvestmentRejected},
	InvestmentUnderReview: {InvestmentActive, InvestmentRejected},
	InvestmentActive:      {InvestmentCompleted, InvestmentCancelled},
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s InvestmentStatus) CanTransitionTo(next InvestmentStatus) bool {
	for _, allowed := range investmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s InvestmentStatus) IsTerminal() bool {
	return len(investmentTransitions[s]) == 0
}

// InvestmentMeta snapshots the plan terms at creation time. Once the
// investment goes active these values are immutable even if the plan rule
// changes later.
type InvestmentMeta struct {
	PlanName       string `json:"plan_name"`
	MonthDuration  int    `json:"month_duration"`
	BoosterApplied bool   `json:"booster_applied"`
}

// Value implements driver.Valuer so InvestmentMeta persists as JSONB.
func (m InvestmentMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *InvestmentMeta) Scan(src interface{}) error {
	if src == nil {
		*m = InvestmentMeta{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("investment meta: cannot scan %T", src)
	}
	return json.Unmarshal(b, m)
}

// Investment represents one user's principal commitment to a plan.
type Investment struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"user_id"`
	Principal   decimal.Decimal  `db:"principal" json:"principal"`
	Method      string           `db:"method" json:"method"`
	ProofURL    string           `db:"proof_url" json:"proof_url,omitempty"`
	UTR         string           `db:"utr" json:"utr,omitempty"` // payment reference
	Status      InvestmentStatus `db:"status" json:"status"`
	StartedAt   *time.Time       `db:"started_at" json:"started_at,omitempty"`
	PlanVersion int              `db:"plan_version" json:"plan_version"`
	Meta        InvestmentMeta   `db:"meta" json:"meta"`
	Remarks     string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// NewInvestment creates an investment in the initiated state with the plan
// terms snapshotted from the given rule.
func NewInvestment(userID int64, principal decimal.Decimal, method string, rule PlanRule, monthDuration int, boosterApplied bool) *Investment {
	now := time.Now().UTC()
	return &Investment{
		UserID:      userID,
		Principal:   principal,
		Method:      method,
		Status:      InvestmentInitiated,
		PlanVersion: rule.Version,
		Meta: InvestmentMeta{
			PlanName:       rule.Name,
			MonthDuration:  monthDuration,
			BoosterApplied: boosterApplied,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
