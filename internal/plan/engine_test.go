// internal/plan/engine_test.go
package plan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investflow/internal/domain"
	"investflow/internal/util"
)

func testRule() domain.PlanRule {
	return domain.PlanRule{
		Name:      "standard",
		MinAmount: decimal.NewFromInt(10000),
		Bands: domain.BandList{
			{FromMonth: 1, ToMonth: 3, MonthlyRate: decimal.RequireFromString("0.03")},
		},
		SpecialMin:  decimal.NewFromInt(300000),
		SpecialRate: decimal.RequireFromString("0.10"),
		AdminCharge: decimal.RequireFromString("0.04"),
		Booster:     decimal.RequireFromString("0.10"),
	}
}

func TestComputeMonthlyReturn(t *testing.T) {
	rule := testRule()

	t.Run("BandedNoBooster", func(t *testing.T) {
		bd, err := ComputeMonthlyReturn(decimal.NewFromInt(100000), 1, rule, false)
		require.NoError(t, err)
		assert.True(t, bd.GrossMonthly.Equal(decimal.NewFromInt(3000)), "gross = %s", bd.GrossMonthly)
		assert.True(t, bd.AdminCharge.Equal(decimal.NewFromInt(120)), "admin charge = %s", bd.AdminCharge)
		assert.True(t, bd.BoosterIncome.IsZero())
		assert.True(t, bd.NetPayout.Equal(decimal.NewFromInt(2880)), "net = %s", bd.NetPayout)
	})

	t.Run("BandedWithBooster", func(t *testing.T) {
		bd, err := ComputeMonthlyReturn(decimal.NewFromInt(100000), 1, rule, true)
		require.NoError(t, err)
		assert.True(t, bd.BoosterIncome.Equal(decimal.NewFromInt(300)), "booster = %s", bd.BoosterIncome)
		assert.True(t, bd.NetPayout.Equal(decimal.NewFromInt(3180)), "net = %s", bd.NetPayout)
	})

	t.Run("SpecialRateIgnoresMonth", func(t *testing.T) {
		for _, monthNo := range []int{1, 2, 7, 24} {
			bd, err := ComputeMonthlyReturn(decimal.NewFromInt(300000), monthNo, rule, false)
			require.NoError(t, err)
			assert.True(t, bd.GrossMonthly.Equal(decimal.NewFromInt(30000)), "month %d: gross = %s", monthNo, bd.GrossMonthly)
		}
	})

	t.Run("MonthBeyondBandsUsesLastBandRate", func(t *testing.T) {
		bd, err := ComputeMonthlyReturn(decimal.NewFromInt(100000), 12, rule, false)
		require.NoError(t, err)
		assert.True(t, bd.GrossMonthly.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := ComputeMonthlyReturn(decimal.RequireFromString("12345.67"), 2, rule, true)
		require.NoError(t, err)
		b, err := ComputeMonthlyReturn(decimal.RequireFromString("12345.67"), 2, rule, true)
		require.NoError(t, err)
		assert.True(t, a.NetPayout.Equal(b.NetPayout))
		assert.True(t, a.GrossMonthly.Equal(b.GrossMonthly))
	})

	t.Run("InvalidInputs", func(t *testing.T) {
		_, err := ComputeMonthlyReturn(decimal.Zero, 1, rule, false)
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, err = ComputeMonthlyReturn(decimal.NewFromInt(1000), 0, rule, false)
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		broken := rule
		broken.Bands = domain.BandList{{FromMonth: 2, ToMonth: 5, MonthlyRate: decimal.RequireFromString("0.01")}}
		_, err = ComputeMonthlyReturn(decimal.NewFromInt(1000), 1, broken, false)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestBuildSchedule(t *testing.T) {
	rule := testRule()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("CompletenessAndIncreasingDueDates", func(t *testing.T) {
		const months = 6
		payouts, err := BuildSchedule(decimal.NewFromInt(100000), rule, false, months, now, now)
		require.NoError(t, err)
		require.Len(t, payouts, months)

		for i, p := range payouts {
			assert.Equal(t, i+1, p.MonthNo)
			assert.Equal(t, domain.PayoutScheduled, p.Status)
			assert.Equal(t, 25, p.DueDate.Day())
			if i > 0 {
				assert.True(t, p.DueDate.After(payouts[i-1].DueDate), "due dates must strictly increase")
			}
		}
		// First due date is the 25th of the month after activation.
		assert.Equal(t, time.Date(2024, time.April, 25, 0, 0, 0, 0, time.UTC), payouts[0].DueDate)
	})

	t.Run("RebasesWhenFirstDueInPast", func(t *testing.T) {
		staleStart := now.AddDate(0, -6, 0)
		payouts, err := BuildSchedule(decimal.NewFromInt(100000), rule, false, 3, staleStart, now)
		require.NoError(t, err)
		assert.False(t, payouts[0].DueDate.Before(now), "first due date must not be in the past")
	})

	t.Run("DurationBounds", func(t *testing.T) {
		_, err := BuildSchedule(decimal.NewFromInt(100000), rule, false, 0, now, now)
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, err = BuildSchedule(decimal.NewFromInt(100000), rule, false, MaxScheduleMonths+1, now, now)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}
