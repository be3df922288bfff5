// internal/repository/kyc_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// KYCRepository defines the interface for KYC document data operations.
type KYCRepository interface {
	// CreateKYCDocument inserts a new submission.
	CreateKYCDocument(ctx context.Context, q DBExecutor, doc *domain.KYCDocument) error
	// GetKYCDocumentByID retrieves a submission by ID.
	GetKYCDocumentByID(ctx context.Context, q DBExecutor, id int64) (*domain.KYCDocument, error)
	// UpdateKYCDocument persists mutable fields (status, remarks).
	UpdateKYCDocument(ctx context.Context, q DBExecutor, doc *domain.KYCDocument) error
	// ListKYCDocumentsByUser retrieves a user's submissions, newest first.
	ListKYCDocumentsByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.KYCDocument, error)
}
