// internal/service/wallet_service_test.go
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

func newWalletServiceUnderTest(userRepo *MockUserRepository, ledgerRepo *MockLedgerRepository, tc *MockTxController) WalletService {
	beginTx, commitTx, rollbackTx := txFuncs(tc)
	return NewWalletService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		userRepo,
		ledgerRepo,
		beginTx,
		commitTx,
		rollbackTx,
	)
}

func TestWalletApply(t *testing.T) {
	userID := int64(1)

	t.Run("SuccessfulCredit", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		tc := new(MockTxController)
		svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

		user := userWithWallet(t, userID, "100", "0")
		tc.On("Commit").Return(nil).Once()
		tc.On("Rollback").Return(nil).Maybe()
		userRepo.On("GetUserForUpdate", ctx, mock.Anything, userID).Return(user, nil).Once()
		userRepo.On("UpdateWallet", ctx, mock.Anything, userID, mock.AnythingOfType("domain.Wallet")).Return(nil).Once()
		ledgerRepo.On("CreateEntry", ctx, mock.Anything, mock.AnythingOfType("*domain.LedgerEntry")).Return(nil).Once()

		resUser, entry, err := svc.Apply(ctx, userID, domain.WalletOperation{
			Kind:   domain.OpCredit,
			Amount: decimal.NewFromInt(50),
			Type:   domain.EntryTypeReferralCredit,
			Note:   "referral earning",
		})

		require.NoError(t, err)
		assert.True(t, resUser.Balance.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, domain.DirectionCredit, entry.Direction)
		assert.NotEmpty(t, entry.RefID, "a missing ref id must be generated")
		assert.Equal(t, userID, entry.UserID)

		mock.AssertExpectationsForObjects(t, userRepo, ledgerRepo, tc)
	})

	t.Run("InsufficientFundsRollsBack", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		tc := new(MockTxController)
		svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

		user := userWithWallet(t, userID, "100", "80")
		tc.On("Rollback").Return(nil).Once()
		userRepo.On("GetUserForUpdate", ctx, mock.Anything, userID).Return(user, nil).Once()

		_, _, err := svc.Apply(ctx, userID, domain.WalletOperation{
			Kind:   domain.OpDebit,
			Amount: decimal.NewFromInt(50),
			Type:   domain.EntryTypeWithdrawalDebit,
			Note:   "over available",
		})

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		tc.AssertNotCalled(t, "Commit")
		userRepo.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminOperationRequiresNote", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		tc := new(MockTxController)
		svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

		tc.On("Rollback").Return(nil).Once()
		adminID := int64(99)
		_, _, err := svc.Apply(ctx, userID, domain.WalletOperation{
			Kind:   domain.OpCredit,
			Amount: decimal.NewFromInt(50),
			Type:   domain.EntryTypeAdminWalletCredit,
			Meta:   domain.LedgerMeta{AdminID: &adminID},
		})

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		userRepo.AssertNotCalled(t, "GetUserForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingEntryTypeRejected", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		tc := new(MockTxController)
		svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

		tc.On("Rollback").Return(nil).Once()
		_, _, err := svc.Apply(ctx, userID, domain.WalletOperation{
			Kind:   domain.OpCredit,
			Amount: decimal.NewFromInt(50),
		})
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		ctx := context.Background()
		userRepo := new(MockUserRepository)
		ledgerRepo := new(MockLedgerRepository)
		tc := new(MockTxController)
		svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

		tc.On("Rollback").Return(nil).Once()
		userRepo.On("GetUserForUpdate", ctx, mock.Anything, userID).Return(nil, util.ErrUserNotFound).Once()

		_, _, err := svc.Apply(ctx, userID, domain.WalletOperation{
			Kind:   domain.OpCredit,
			Amount: decimal.NewFromInt(50),
			Type:   domain.EntryTypeReferralCredit,
		})
		assert.ErrorIs(t, err, util.ErrUserNotFound)
		tc.AssertNotCalled(t, "Commit")
	})
}

func TestGetLedgerHistory(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)
	userRepo := new(MockUserRepository)
	ledgerRepo := new(MockLedgerRepository)
	tc := new(MockTxController)
	svc := newWalletServiceUnderTest(userRepo, ledgerRepo, tc)

	entries := []domain.LedgerEntry{{ID: 1, UserID: userID, Type: domain.EntryTypePayoutCredit}}
	userRepo.On("GetUserByID", ctx, mock.Anything, userID).Return(userWithWallet(t, userID, "0", "0"), nil).Once()
	ledgerRepo.On("ListByUser", ctx, mock.Anything, userID, 10, 0).Return(entries, int64(1), nil).Once()

	got, total, err := svc.GetLedgerHistory(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)

	mock.AssertExpectationsForObjects(t, userRepo, ledgerRepo)
}
