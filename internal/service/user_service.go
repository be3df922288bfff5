// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"investflow/internal/domain"
	"investflow/internal/repository"
	"investflow/internal/util"
)

// UserService registers users and resolves referral chains.
type UserService interface {
	// Register creates a user with a zeroed wallet. referredBy, when set,
	// must point at an existing user.
	Register(ctx context.Context, email string, referredBy *int64) (*domain.User, error)
	Get(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository) UserService {
	return &userService{dbExecutor: dbExecutor, userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, email string, referredBy *int64) (*domain.User, error) {
	if email == "" {
		return nil, util.ErrInvalidInput
	}
	if referredBy != nil {
		if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, *referredBy); err != nil {
			if errors.Is(err, util.ErrUserNotFound) {
				return nil, fmt.Errorf("referrer %d: %w", *referredBy, util.ErrInvalidInput)
			}
			return nil, fmt.Errorf("register user: %w", err)
		}
	}

	user := domain.NewUser(email, referredBy)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
}
