// internal/service/kyc_service.go
package service

import (
	"context"
	"fmt"
	"strconv"

	"investflow/internal/domain"
	"investflow/internal/ratelimit"
	"investflow/internal/repository"
	"investflow/internal/util"
	"investflow/pkg/db"
)

// KYCService handles document submission and admin review. Submissions are
// rate limited per user through a shared limiter so retries cannot flood the
// review queue.
type KYCService interface {
	Submit(ctx context.Context, userID int64, docType, docURL string) (*domain.KYCDocument, error)
	// Approve marks the document approved and flips the user's verified flag
	// in the same transaction.
	Approve(ctx context.Context, docID, adminID int64) (*domain.KYCDocument, error)
	Reject(ctx context.Context, docID, adminID int64, remarks string) (*domain.KYCDocument, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.KYCDocument, error)
}

type kycService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	kycRepo    repository.KYCRepository
	userRepo   repository.UserRepository
	limiter    ratelimit.Limiter
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewKYCService creates a new instance of KYCService.
func NewKYCService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	kycRepo repository.KYCRepository,
	userRepo repository.UserRepository,
	limiter ratelimit.Limiter,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) KYCService {
	return &kycService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		kycRepo:    kycRepo,
		userRepo:   userRepo,
		limiter:    limiter,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *kycService) Submit(ctx context.Context, userID int64, docType, docURL string) (*domain.KYCDocument, error) {
	if docType == "" || docURL == "" {
		return nil, util.ErrInvalidInput
	}

	allowed, err := s.limiter.Allow(ctx, "kyc:"+strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("submit kyc: %w", err)
	}
	if !allowed {
		return nil, util.ErrRateLimited
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("submit kyc: %w", err)
	}

	doc := domain.NewKYCDocument(userID, docType, docURL)
	if err := s.kycRepo.CreateKYCDocument(ctx, s.dbExecutor, doc); err != nil {
		return nil, fmt.Errorf("submit kyc: %w", err)
	}
	return doc, nil
}

func (s *kycService) Approve(ctx context.Context, docID, adminID int64) (*domain.KYCDocument, error) {
	return s.review(ctx, docID, domain.KYCApproved, "")
}

func (s *kycService) Reject(ctx context.Context, docID, adminID int64, remarks string) (*domain.KYCDocument, error) {
	if remarks == "" {
		return nil, util.ErrInvalidInput
	}
	return s.review(ctx, docID, domain.KYCRejected, remarks)
}

func (s *kycService) review(ctx context.Context, docID int64, next domain.KYCStatus, remarks string) (*domain.KYCDocument, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("review kyc: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("review kyc: transaction controller does not implement DBExecutor")
	}

	doc, err := s.kycRepo.GetKYCDocumentByID(ctx, txExecutor, docID)
	if err != nil {
		return nil, fmt.Errorf("review kyc: %w", err)
	}
	if doc.Status != domain.KYCPending {
		return nil, fmt.Errorf("review from %s: %w", doc.Status, util.ErrInvalidStateTransition)
	}

	doc.Status = next
	doc.Remarks = remarks
	if err := s.kycRepo.UpdateKYCDocument(ctx, txExecutor, doc); err != nil {
		return nil, fmt.Errorf("review kyc: %w", err)
	}
	if next == domain.KYCApproved {
		if err := s.userRepo.SetKYCVerified(ctx, txExecutor, doc.UserID, true); err != nil {
			return nil, fmt.Errorf("review kyc: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("review kyc: failed to commit transaction: %w", err)
	}
	return doc, nil
}

func (s *kycService) ListByUser(ctx context.Context, userID int64) ([]domain.KYCDocument, error) {
	return s.kycRepo.ListKYCDocumentsByUser(ctx, s.dbExecutor, userID)
}
