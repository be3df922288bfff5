// internal/service/payout_service_test.go
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

func newPayoutServiceUnderTest(payoutRepo *MockPayoutRepository, invRepo *MockInvestmentRepository, wallet *MockWalletService, tc *MockTxController) PayoutService {
	beginTx, commitTx, rollbackTx := txFuncs(tc)
	return NewPayoutService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		payoutRepo,
		invRepo,
		wallet,
		beginTx,
		commitTx,
		rollbackTx,
	)
}

func processingPayout(id, investmentID int64) *domain.Payout {
	return &domain.Payout{
		ID:           id,
		InvestmentID: investmentID,
		MonthNo:      1,
		GrossPayout:  decimal.NewFromInt(3000),
		AdminCharge:  decimal.NewFromInt(120),
		NetPayout:    decimal.NewFromInt(2880),
		Status:       domain.PayoutProcessing,
	}
}

func TestPayoutMarkPaid(t *testing.T) {
	payoutID := int64(42)
	investmentID := int64(10)
	adminID := int64(99)

	activeInvestment := func() *domain.Investment {
		return &domain.Investment{
			ID:     investmentID,
			UserID: 1,
			Status: domain.InvestmentActive,
		}
	}

	t.Run("CreditsNetAndRecordsReference", func(t *testing.T) {
		ctx := context.Background()
		payoutRepo := new(MockPayoutRepository)
		invRepo := new(MockInvestmentRepository)
		wallet := new(MockWalletService)
		tc := new(MockTxController)
		svc := newPayoutServiceUnderTest(payoutRepo, invRepo, wallet, tc)

		p := processingPayout(payoutID, investmentID)
		tc.On("Commit").Return(nil).Once()
		tc.On("Rollback").Return(nil).Maybe()
		payoutRepo.On("GetPayoutForUpdate", ctx, mock.Anything, payoutID).Return(p, nil).Once()
		invRepo.On("GetInvestmentByID", ctx, mock.Anything, investmentID).Return(activeInvestment(), nil).Once()
		wallet.On("ApplyTx", ctx, mock.Anything, int64(1), mock.MatchedBy(func(op domain.WalletOperation) bool {
			return op.Kind == domain.OpPayoutCredit &&
				op.Amount.Equal(decimal.NewFromInt(2880)) &&
				op.Type == domain.EntryTypePayoutCredit &&
				op.Meta.RRN == "RRN123" && op.Meta.Gateway == "upi"
		})).Return(userWithWallet(t, 1, "2880", "0"), &domain.LedgerEntry{}, nil).Once()
		payoutRepo.On("UpdatePayout", ctx, mock.Anything, mock.MatchedBy(func(got *domain.Payout) bool {
			return got.Status == domain.PayoutPaid && got.PaidAt != nil && got.RRN == "RRN123"
		})).Return(nil).Once()
		payoutRepo.On("CountUnpaidByInvestment", ctx, mock.Anything, investmentID).Return(int64(5), nil).Once()

		res, err := svc.MarkPaid(ctx, payoutID, adminID, "RRN123", "upi")
		require.NoError(t, err)
		assert.Equal(t, domain.PayoutPaid, res.Status)

		// Other payouts remain unpaid, so the investment stays active.
		invRepo.AssertNotCalled(t, "UpdateInvestment", mock.Anything, mock.Anything, mock.Anything)
		mock.AssertExpectationsForObjects(t, payoutRepo, invRepo, wallet, tc)
	})

	t.Run("LastPaidPayoutCompletesInvestment", func(t *testing.T) {
		ctx := context.Background()
		payoutRepo := new(MockPayoutRepository)
		invRepo := new(MockInvestmentRepository)
		wallet := new(MockWalletService)
		tc := new(MockTxController)
		svc := newPayoutServiceUnderTest(payoutRepo, invRepo, wallet, tc)

		p := processingPayout(payoutID, investmentID)
		tc.On("Commit").Return(nil).Once()
		tc.On("Rollback").Return(nil).Maybe()
		payoutRepo.On("GetPayoutForUpdate", ctx, mock.Anything, payoutID).Return(p, nil).Once()
		invRepo.On("GetInvestmentByID", ctx, mock.Anything, investmentID).Return(activeInvestment(), nil).Once()
		wallet.On("ApplyTx", ctx, mock.Anything, int64(1), mock.Anything).Return(userWithWallet(t, 1, "2880", "0"), &domain.LedgerEntry{}, nil).Once()
		payoutRepo.On("UpdatePayout", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		payoutRepo.On("CountUnpaidByInvestment", ctx, mock.Anything, investmentID).Return(int64(0), nil).Once()
		invRepo.On("GetInvestmentForUpdate", ctx, mock.Anything, investmentID).Return(activeInvestment(), nil).Once()
		invRepo.On("UpdateInvestment", ctx, mock.Anything, mock.MatchedBy(func(got *domain.Investment) bool {
			return got.Status == domain.InvestmentCompleted
		})).Return(nil).Once()

		_, err := svc.MarkPaid(ctx, payoutID, adminID, "RRN123", "upi")
		require.NoError(t, err)

		mock.AssertExpectationsForObjects(t, payoutRepo, invRepo, wallet, tc)
	})

	t.Run("MissingReferenceRejected", func(t *testing.T) {
		ctx := context.Background()
		payoutRepo := new(MockPayoutRepository)
		svc := newPayoutServiceUnderTest(payoutRepo, new(MockInvestmentRepository), new(MockWalletService), new(MockTxController))

		_, err := svc.MarkPaid(ctx, payoutID, adminID, "", "upi")
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, err = svc.MarkPaid(ctx, payoutID, adminID, "RRN123", "")
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		payoutRepo.AssertNotCalled(t, "GetPayoutForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ScheduledCannotBePaidDirectly", func(t *testing.T) {
		ctx := context.Background()
		payoutRepo := new(MockPayoutRepository)
		tc := new(MockTxController)
		svc := newPayoutServiceUnderTest(payoutRepo, new(MockInvestmentRepository), new(MockWalletService), tc)

		p := processingPayout(payoutID, investmentID)
		p.Status = domain.PayoutScheduled
		tc.On("Rollback").Return(nil).Once()
		payoutRepo.On("GetPayoutForUpdate", ctx, mock.Anything, payoutID).Return(p, nil).Once()

		_, err := svc.MarkPaid(ctx, payoutID, adminID, "RRN123", "upi")
		assert.ErrorIs(t, err, util.ErrInvalidStateTransition)
	})
}

func TestPayoutBookkeepingTransitionWritesAuditEntry(t *testing.T) {
	ctx := context.Background()
	payoutID := int64(42)
	investmentID := int64(10)

	payoutRepo := new(MockPayoutRepository)
	invRepo := new(MockInvestmentRepository)
	wallet := new(MockWalletService)
	tc := new(MockTxController)
	svc := newPayoutServiceUnderTest(payoutRepo, invRepo, wallet, tc)

	p := processingPayout(payoutID, investmentID)
	tc.On("Commit").Return(nil).Once()
	tc.On("Rollback").Return(nil).Maybe()
	payoutRepo.On("GetPayoutForUpdate", ctx, mock.Anything, payoutID).Return(p, nil).Once()
	invRepo.On("GetInvestmentByID", ctx, mock.Anything, investmentID).Return(&domain.Investment{ID: investmentID, UserID: 1}, nil).Once()
	wallet.On("ApplyTx", ctx, mock.Anything, int64(1), mock.MatchedBy(func(op domain.WalletOperation) bool {
		return op.Kind == domain.OpAudit && op.Amount.IsZero() && op.Type == domain.EntryTypePayoutStatus
	})).Return(userWithWallet(t, 1, "0", "0"), &domain.LedgerEntry{}, nil).Once()
	payoutRepo.On("UpdatePayout", ctx, mock.Anything, mock.MatchedBy(func(got *domain.Payout) bool {
		return got.Status == domain.PayoutOnHold && got.Remarks == "bank verification pending"
	})).Return(nil).Once()

	res, err := svc.MarkOnHold(ctx, payoutID, 99, "bank verification pending")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutOnHold, res.Status)

	mock.AssertExpectationsForObjects(t, payoutRepo, invRepo, wallet, tc)
}

func TestPayoutReasonRequired(t *testing.T) {
	ctx := context.Background()
	svc := newPayoutServiceUnderTest(new(MockPayoutRepository), new(MockInvestmentRepository), new(MockWalletService), new(MockTxController))

	_, err := svc.MarkFailed(ctx, 1, 99, "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = svc.MarkOnHold(ctx, 1, 99, "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
