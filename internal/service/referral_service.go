// internal/service/referral_service.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

// ReferralService credits referral earnings into the referrer's wallet. The
// platform treats referral amounts as already computed upstream; this service
// only does the bookkeeping.
type ReferralService interface {
	// CreditEarning credits amount to the referrer of sourceUserID. Fails
	// with ErrInvalidInput when the source user has no referrer.
	CreditEarning(ctx context.Context, sourceUserID int64, amount decimal.Decimal, note string) (*domain.LedgerEntry, error)
}

type referralService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	wallet     WalletService
}

// NewReferralService creates a new instance of ReferralService.
func NewReferralService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository, wallet WalletService) ReferralService {
	return &referralService{
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		wallet:     wallet,
	}
}

func (s *referralService) CreditEarning(ctx context.Context, sourceUserID int64, amount decimal.Decimal, note string) (*domain.LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	if note == "" {
		note = "referral earning"
	}

	source, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, sourceUserID)
	if err != nil {
		return nil, fmt.Errorf("credit referral: %w", err)
	}
	if source.ReferredBy == nil {
		return nil, fmt.Errorf("user %d has no referrer: %w", sourceUserID, util.ErrInvalidInput)
	}

	_, entry, err := s.wallet.Apply(ctx, *source.ReferredBy, domain.WalletOperation{
		Kind:   domain.OpCredit,
		Amount: amount,
		Type:   domain.EntryTypeReferralCredit,
		Note:   note,
		Meta:   domain.LedgerMeta{SourceUserID: &sourceUserID},
	})
	if err != nil {
		return nil, fmt.Errorf("credit referral: %w", err)
	}
	return entry, nil
}
