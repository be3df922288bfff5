// internal/plan/engine.go

// Package plan implements the pure computation behind investment returns:
// tiered/time-banded monthly interest and payout schedule derivation. It has
// no side effects; persistence belongs to the services that call it.
package plan

import (
	"time"

	"github.com/shopspring/decimal"

	"investflow/internal/domain"
	"investflow/internal/util"
)

// MaxScheduleMonths bounds schedule generation so the enclosing transaction
// stays short.
const MaxScheduleMonths = 120

// Breakdown is the result of computing one month's return.
type Breakdown struct {
	GrossMonthly  decimal.Decimal
	AdminCharge   decimal.Decimal
	BoosterIncome decimal.Decimal
	NetPayout     decimal.Decimal
}

// round2 rounds to 2 decimal places. Rounding is applied at each intermediate
// step so results are penny-level reproducible.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeMonthlyReturn computes the gross monthly return, admin charge,
// booster income and net payout for the given principal and holding month.
//
// A principal at or above the rule's SpecialMin earns the flat special rate
// regardless of month. Otherwise the band covering monthNo applies; a month
// beyond all bands falls back to the last band's rate (documented policy).
func ComputeMonthlyReturn(principal decimal.Decimal, monthNo int, rule domain.PlanRule, boosterApplied bool) (Breakdown, error) {
	if principal.LessThanOrEqual(decimal.Zero) || monthNo < 1 {
		return Breakdown{}, util.ErrInvalidInput
	}
	if err := rule.Bands.Validate(); err != nil {
		return Breakdown{}, err
	}

	var gross decimal.Decimal
	if rule.SpecialMin.IsPositive() && principal.GreaterThanOrEqual(rule.SpecialMin) {
		gross = round2(principal.Mul(rule.SpecialRate))
	} else {
		gross = round2(principal.Mul(rateForMonth(rule.Bands, monthNo)))
	}

	adminCharge := round2(gross.Mul(rule.AdminCharge))
	boosterIncome := decimal.Zero
	if boosterApplied {
		boosterIncome = round2(gross.Mul(rule.Booster))
	}
	net := round2(gross.Sub(adminCharge).Add(boosterIncome))

	return Breakdown{
		GrossMonthly:  gross,
		AdminCharge:   adminCharge,
		BoosterIncome: boosterIncome,
		NetPayout:     net,
	}, nil
}

func rateForMonth(bands domain.BandList, monthNo int) decimal.Decimal {
	for _, b := range bands {
		if monthNo >= b.FromMonth && monthNo <= b.ToMonth {
			return b.MonthlyRate
		}
	}
	// Month beyond all bands: last band's rate.
	return bands[len(bands)-1].MonthlyRate
}

// BuildSchedule derives the full payout schedule for an activated investment:
// one payout per month 1..monthDuration, due on the 25th of the i-th month
// after startedAt. If the first due date would already be in the past at
// creation time, the whole schedule is rebased so the first payout falls on
// the 25th of the calendar month after now.
func BuildSchedule(principal decimal.Decimal, rule domain.PlanRule, boosterApplied bool, monthDuration int, startedAt, now time.Time) ([]domain.Payout, error) {
	if monthDuration < 1 || monthDuration > MaxScheduleMonths {
		return nil, util.ErrInvalidInput
	}

	base := startedAt.UTC()
	if dueDateFor(base, 1).Before(now.UTC()) {
		base = now.UTC()
	}

	payouts := make([]domain.Payout, 0, monthDuration)
	for i := 1; i <= monthDuration; i++ {
		bd, err := ComputeMonthlyReturn(principal, i, rule, boosterApplied)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, domain.Payout{
			MonthNo:     i,
			DueDate:     dueDateFor(base, i),
			GrossPayout: bd.GrossMonthly,
			AdminCharge: bd.AdminCharge,
			Booster:     bd.BoosterIncome,
			TDS:         decimal.Zero,
			NetPayout:   bd.NetPayout,
			Status:      domain.PayoutScheduled,
			CreatedAt:   now.UTC(),
			UpdatedAt:   now.UTC(),
		})
	}
	return payouts, nil
}

// dueDateFor returns the 25th of the i-th month after base, clamped to the
// last day of that month should the 25th not exist (it always does; the clamp
// is robustness against future changes to the payout day).
func dueDateFor(base time.Time, i int) time.Time {
	y, m, _ := base.Date()
	firstOfTarget := time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(firstOfTarget.Year(), firstOfTarget.Month(), 25, 0, 0, 0, 0, time.UTC)
	if due.Month() != firstOfTarget.Month() {
		due = firstOfTarget.AddDate(0, 1, -1)
	}
	return due
}
