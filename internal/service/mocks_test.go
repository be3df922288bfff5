// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. Embedding
// MockDBExecutor lets it satisfy repository.DBExecutor too, mirroring how a
// real *sqlx.Tx serves both roles.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns begin/commit/rollback functions routed at the given mock
// controller.
func txFuncs(tc *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tc, nil
		},
		func(tx db.TxController) error {
			return tc.Commit()
		},
		func(tx db.TxController) {
			_ = tc.Rollback()
		}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateWallet(ctx context.Context, q repository.DBExecutor, userID int64, w domain.Wallet) error {
	args := m.Called(ctx, q, userID, w)
	return args.Error(0)
}

func (m *MockUserRepository) SetKYCVerified(ctx context.Context, q repository.DBExecutor, userID int64, verified bool) error {
	args := m.Called(ctx, q, userID, verified)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateEntry(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

// MockInvestmentRepository is a mock implementation of repository.InvestmentRepository.
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, inv *domain.Investment) error {
	args := m.Called(ctx, q, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) GetInvestmentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) GetInvestmentForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) UpdateInvestment(ctx context.Context, q repository.DBExecutor, inv *domain.Investment) error {
	args := m.Called(ctx, q, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) ListInvestmentsByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Investment, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Investment), args.Error(1)
}

// MockPayoutRepository is a mock implementation of repository.PayoutRepository.
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) CreatePayoutBatch(ctx context.Context, q repository.DBExecutor, investmentID int64, payouts []domain.Payout) error {
	args := m.Called(ctx, q, investmentID, payouts)
	return args.Error(0)
}

func (m *MockPayoutRepository) GetPayoutByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payout, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) GetPayoutForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Payout, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) UpdatePayout(ctx context.Context, q repository.DBExecutor, p *domain.Payout) error {
	args := m.Called(ctx, q, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) ListPayoutsByInvestment(ctx context.Context, q repository.DBExecutor, investmentID int64) ([]domain.Payout, error) {
	args := m.Called(ctx, q, investmentID)
	return args.Get(0).([]domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) CountUnpaidByInvestment(ctx context.Context, q repository.DBExecutor, investmentID int64) (int64, error) {
	args := m.Called(ctx, q, investmentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlanRuleRepository is a mock implementation of repository.PlanRuleRepository.
type MockPlanRuleRepository struct {
	mock.Mock
}

func (m *MockPlanRuleRepository) CreatePlanRule(ctx context.Context, q repository.DBExecutor, rule *domain.PlanRule) error {
	args := m.Called(ctx, q, rule)
	return args.Error(0)
}

func (m *MockPlanRuleRepository) GetActivePlanRule(ctx context.Context, q repository.DBExecutor) (*domain.PlanRule, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanRule), args.Error(1)
}

func (m *MockPlanRuleRepository) GetPlanRuleByVersion(ctx context.Context, q repository.DBExecutor, version int) (*domain.PlanRule, error) {
	args := m.Called(ctx, q, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanRule), args.Error(1)
}

func (m *MockPlanRuleRepository) MaxVersion(ctx context.Context, q repository.DBExecutor) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *MockPlanRuleRepository) DeactivateAll(ctx context.Context, q repository.DBExecutor) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockPlanRuleRepository) SetActive(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockWithdrawalRepository is a mock implementation of repository.WithdrawalRepository.
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, wd *domain.Withdrawal) error {
	args := m.Called(ctx, q, wd)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) GetWithdrawalForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateWithdrawal(ctx context.Context, q repository.DBExecutor, wd *domain.Withdrawal) error {
	args := m.Called(ctx, q, wd)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByUser(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

// MockKYCRepository is a mock implementation of repository.KYCRepository.
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) CreateKYCDocument(ctx context.Context, q repository.DBExecutor, doc *domain.KYCDocument) error {
	args := m.Called(ctx, q, doc)
	return args.Error(0)
}

func (m *MockKYCRepository) GetKYCDocumentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.KYCDocument, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KYCDocument), args.Error(1)
}

func (m *MockKYCRepository) UpdateKYCDocument(ctx context.Context, q repository.DBExecutor, doc *domain.KYCDocument) error {
	args := m.Called(ctx, q, doc)
	return args.Error(0)
}

func (m *MockKYCRepository) ListKYCDocumentsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.KYCDocument, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.KYCDocument), args.Error(1)
}

// MockWalletService is a mock implementation of WalletService for composing
// services without replaying the full wallet pipeline.
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) Apply(ctx context.Context, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, op)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockWalletService) ApplyTx(ctx context.Context, q repository.DBExecutor, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error) {
	args := m.Called(ctx, q, userID, op)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.LedgerEntry), args.Error(2)
}

func (m *MockWalletService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockWalletService) GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

// MockLimiter is a mock implementation of ratelimit.Limiter.
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// userWithWallet builds a user with the given wallet fields for test setup.
func userWithWallet(t *testing.T, id int64, balance, locked string) *domain.User {
	t.Helper()
	return &domain.User{
		ID:    id,
		Email: "user@example.com",
		Wallet: domain.Wallet{
			Balance:     decimal.RequireFromString(balance),
			Locked:      decimal.RequireFromString(locked),
			TotalProfit: decimal.Zero,
			TotalPayout: decimal.Zero,
		},
	}
}
