// internal/repository/postgres/kyc_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

// KYCRepository implements repository.KYCRepository for PostgreSQL.
type KYCRepository struct{}

// NewKYCRepository creates a new KYCRepository.
func NewKYCRepository(db *sqlx.DB) repository.KYCRepository {
	return &KYCRepository{}
}

// CreateKYCDocument inserts a new submission.
func (r *KYCRepository) CreateKYCDocument(ctx context.Context, q repository.DBExecutor, doc *domain.KYCDocument) error {
	query := `INSERT INTO kyc_documents (user_id, doc_type, doc_url, status, remarks, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		doc.UserID, doc.DocType, doc.DocURL, doc.Status, doc.Remarks, doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to create kyc document: %w", err)
	}
	return nil
}

// GetKYCDocumentByID retrieves a submission by ID.
func (r *KYCRepository) GetKYCDocumentByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.KYCDocument, error) {
	var doc domain.KYCDocument
	query := `SELECT id, user_id, doc_type, doc_url, status, remarks, created_at, updated_at FROM kyc_documents WHERE id = $1`
	err := q.GetContext(ctx, &doc, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get kyc document %d: %w", id, err)
	}
	return &doc, nil
}

// UpdateKYCDocument persists mutable fields.
func (r *KYCRepository) UpdateKYCDocument(ctx context.Context, q repository.DBExecutor, doc *domain.KYCDocument) error {
	query := `UPDATE kyc_documents SET status = $1, remarks = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, doc.Status, doc.Remarks, time.Now().UTC(), doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update kyc document %d: %w", doc.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating kyc document %d: %w", doc.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ListKYCDocumentsByUser retrieves a user's submissions, newest first.
func (r *KYCRepository) ListKYCDocumentsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.KYCDocument, error) {
	docs := []domain.KYCDocument{}
	query := `SELECT id, user_id, doc_type, doc_url, status, remarks, created_at, updated_at FROM kyc_documents WHERE user_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch kyc documents for user %d: %w", userID, err)
	}
	return docs, nil
}
