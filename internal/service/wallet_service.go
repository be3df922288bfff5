// internal/service/wallet_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"investflow/internal/domain"
	"investflow/internal/metrics"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// WalletService is the single entry point for money movement. Every wallet
// mutation runs inside a database transaction, reads the user row under a
// lock, and writes exactly one ledger entry alongside the updated fields.
type WalletService interface {
	// Apply runs one wallet operation in its own transaction.
	Apply(ctx context.Context, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error)
	// ApplyTx runs one wallet operation inside a transaction the caller
	// already opened, so composite flows (investment approval, withdrawal
	// transitions) commit atomically with their own writes.
	ApplyTx(ctx context.Context, q repository.DBExecutor, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error)
	// GetUser retrieves a user with wallet fields.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	// GetLedgerHistory retrieves a paginated ledger for a user plus the total count.
	GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)
}

type walletService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WalletService {
	return &walletService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *walletService) Apply(ctx context.Context, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error) {
	timer := prometheus.NewTimer(metrics.WalletMutationDuration)
	defer timer.ObserveDuration()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("wallet apply: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("wallet apply: transaction controller does not implement DBExecutor")
	}

	user, entry, err := s.ApplyTx(ctx, txExecutor, userID, op)
	if err != nil {
		return nil, nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("wallet apply: failed to commit transaction: %w", err)
	}

	metrics.LedgerEntriesTotal.WithLabelValues(entry.Type, string(entry.Direction)).Inc()
	return user, entry, nil
}

func (s *walletService) ApplyTx(ctx context.Context, q repository.DBExecutor, userID int64, op domain.WalletOperation) (*domain.User, *domain.LedgerEntry, error) {
	// Administrative mutations must carry a human-readable reason.
	if op.Meta.AdminID != nil && op.Note == "" {
		return nil, nil, util.ErrInvalidInput
	}
	if op.Type == "" {
		return nil, nil, util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserForUpdate(ctx, q, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("wallet apply: failed to lock user %d: %w", userID, err)
	}

	newWallet, entry, err := domain.ApplyWalletOperation(user.Wallet, op, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}
	entry.UserID = userID
	if entry.RefID == "" {
		entry.RefID = uuid.NewString()
	}

	if err := s.userRepo.UpdateWallet(ctx, q, userID, newWallet); err != nil {
		return nil, nil, fmt.Errorf("wallet apply: failed to persist wallet for user %d: %w", userID, err)
	}
	if err := s.ledgerRepo.CreateEntry(ctx, q, &entry); err != nil {
		return nil, nil, fmt.Errorf("wallet apply: failed to write ledger entry for user %d: %w", userID, err)
	}

	user.Wallet = newWallet
	return user, &entry, nil
}

func (s *walletService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *walletService) GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, 0, fmt.Errorf("ledger history: %w", err)
	}
	entries, total, err := s.ledgerRepo.ListByUser(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger history: %w", err)
	}
	return entries, total, nil
}
