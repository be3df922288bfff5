// internal/domain/planrule.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"investflow/internal/util"
)

// Band is a contiguous month range with an associated monthly interest rate.
type Band struct {
	FromMonth   int             `json:"from_month"`
	ToMonth     int             `json:"to_month"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
}

// BandList is an ordered, contiguous set of bands persisted as JSONB.
type BandList []Band

// Value implements driver.Valuer.
func (b BandList) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner.
func (b *BandList) Scan(src interface{}) error {
	if src == nil {
		*b = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("band list: cannot scan %T", src)
	}
	return json.Unmarshal(raw, b)
}

// Validate checks that bands are present, ordered by FromMonth, contiguous
// and non-overlapping, starting at month 1.
func (b BandList) Validate() error {
	if len(b) == 0 {
		return util.ErrInvalidInput
	}
	expectedFrom := 1
	for _, band := range b {
		if band.FromMonth != expectedFrom || band.ToMonth < band.FromMonth {
			return util.ErrInvalidInput
		}
		if band.MonthlyRate.IsNegative() {
			return util.ErrInvalidInput
		}
		expectedFrom = band.ToMonth + 1
	}
	return nil
}

// MaxMonth returns the last month covered by the band table.
func (b BandList) MaxMonth() int {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1].ToMonth
}

// PlanRule is a versioned, time-banded interest schedule. At most one rule is
// active globally; investments snapshot the version they were created under so
// retroactive rule changes never alter already-active schedules.
type PlanRule struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	MinAmount     decimal.Decimal `db:"min_amount" json:"min_amount"`
	SpecialMin    decimal.Decimal `db:"special_min" json:"special_min"`
	Bands         BandList        `db:"bands" json:"bands"`
	SpecialRate   decimal.Decimal `db:"special_rate" json:"special_rate"`
	AdminCharge   decimal.Decimal `db:"admin_charge" json:"admin_charge"` // fraction of gross, e.g. 0.04
	Booster       decimal.Decimal `db:"booster" json:"booster"`           // fraction of gross, e.g. 0.10
	Active        bool            `db:"active" json:"active"`
	Version       int             `db:"version" json:"version"`
	EffectiveFrom time.Time       `db:"effective_from" json:"effective_from"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
