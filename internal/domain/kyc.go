// internal/domain/kyc.go
package domain

import "time"

// KYCStatus is the review state of a submitted document.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

// KYCDocument stores an already-validated document URL verbatim; the platform
// performs no file validation of its own.
type KYCDocument struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	DocType   string    `db:"doc_type" json:"doc_type"`
	DocURL    string    `db:"doc_url" json:"doc_url"`
	Status    KYCStatus `db:"status" json:"status"`
	Remarks   string    `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewKYCDocument creates a pending KYC submission.
func NewKYCDocument(userID int64, docType, docURL string) *KYCDocument {
	now := time.Now().UTC()
	return &KYCDocument{
		UserID:    userID,
		DocType:   docType,
		DocURL:    docURL,
		Status:    KYCPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
