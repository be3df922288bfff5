// internal/repository/ledger_repo.go
package repository

import (
	"context"

	"investflow/internal/domain"
)

// LedgerRepository defines the interface for the append-only ledger.
// Entries are never updated or deleted.
type LedgerRepository interface {
	// CreateEntry appends one ledger entry.
	CreateEntry(ctx context.Context, q DBExecutor, entry *domain.LedgerEntry) error
	// ListByUser retrieves a paginated ledger history for a user, newest first,
	// together with the total entry count.
	ListByUser(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, int64, error)
}
