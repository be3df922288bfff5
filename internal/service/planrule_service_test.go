// internal/service/planrule_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"investflow/internal/domain"
	"investflow/internal/util"
)

func newPlanRuleServiceUnderTest(ruleRepo *MockPlanRuleRepository, tc *MockTxController) PlanRuleService {
	beginTx, commitTx, rollbackTx := txFuncs(tc)
	return NewPlanRuleService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		ruleRepo,
		beginTx,
		commitTx,
		rollbackTx,
	)
}

func validRule() *domain.PlanRule {
	return &domain.PlanRule{
		Name:      "standard",
		MinAmount: decimal.NewFromInt(10000),
		Bands: domain.BandList{
			{FromMonth: 1, ToMonth: 3, MonthlyRate: decimal.RequireFromString("0.03")},
			{FromMonth: 4, ToMonth: 12, MonthlyRate: decimal.RequireFromString("0.025")},
		},
		AdminCharge: decimal.RequireFromString("0.04"),
		Booster:     decimal.RequireFromString("0.10"),
	}
}

func TestPlanRuleCreate(t *testing.T) {
	t.Run("AssignsNextVersionInactive", func(t *testing.T) {
		ctx := context.Background()
		ruleRepo := new(MockPlanRuleRepository)
		tc := new(MockTxController)
		svc := newPlanRuleServiceUnderTest(ruleRepo, tc)

		tc.On("Commit").Return(nil).Once()
		tc.On("Rollback").Return(nil).Maybe()
		ruleRepo.On("MaxVersion", ctx, mock.Anything).Return(4, nil).Once()
		ruleRepo.On("CreatePlanRule", ctx, mock.Anything, mock.MatchedBy(func(rule *domain.PlanRule) bool {
			return rule.Version == 5 && !rule.Active
		})).Return(nil).Once()

		rule, err := svc.Create(ctx, validRule())
		require.NoError(t, err)
		assert.Equal(t, 5, rule.Version)
		assert.False(t, rule.Active, "new versions start inactive")

		mock.AssertExpectationsForObjects(t, ruleRepo, tc)
	})

	t.Run("NonContiguousBandsRejected", func(t *testing.T) {
		ctx := context.Background()
		ruleRepo := new(MockPlanRuleRepository)
		svc := newPlanRuleServiceUnderTest(ruleRepo, new(MockTxController))

		rule := validRule()
		rule.Bands = domain.BandList{
			{FromMonth: 1, ToMonth: 3, MonthlyRate: decimal.RequireFromString("0.03")},
			{FromMonth: 5, ToMonth: 12, MonthlyRate: decimal.RequireFromString("0.025")},
		}

		_, err := svc.Create(ctx, rule)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		ruleRepo.AssertNotCalled(t, "CreatePlanRule", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyNameRejected", func(t *testing.T) {
		ctx := context.Background()
		svc := newPlanRuleServiceUnderTest(new(MockPlanRuleRepository), new(MockTxController))

		rule := validRule()
		rule.Name = ""
		_, err := svc.Create(ctx, rule)
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestPlanRuleActivate(t *testing.T) {
	ctx := context.Background()
	ruleRepo := new(MockPlanRuleRepository)
	tc := new(MockTxController)
	svc := newPlanRuleServiceUnderTest(ruleRepo, tc)

	tc.On("Commit").Return(nil).Once()
	tc.On("Rollback").Return(nil).Maybe()
	ruleRepo.On("DeactivateAll", ctx, mock.Anything).Return(nil).Once()
	ruleRepo.On("SetActive", ctx, mock.Anything, int64(7)).Return(nil).Once()

	err := svc.Activate(ctx, 7)
	require.NoError(t, err)

	mock.AssertExpectationsForObjects(t, ruleRepo, tc)
}
