package account

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// AccountService registers marketplace users and exposes their reputation counters
type AccountService struct {
	repo  repository.UserStore
	clock clock.Clock
}

// NewAccountService creates a new AccountService instance
func NewAccountService(repo repository.UserStore, clk clock.Clock) *AccountService {
	if clk == nil {
		clk = clock.System{}
	}
	return &AccountService{repo: repo, clock: clk}
}

// RegisterUser stores a new user with zeroed counters. Emails are unique.
func (s *AccountService) RegisterUser(ctx context.Context, name, email string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return models.User{}, fmt.Errorf("service: %w - missing name", auctionerrors.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("service: %w - invalid email %q", auctionerrors.ErrInvalidRequest, email)
	}

	user := models.User{
		UserID:   utils.GenerateID(),
		Name:     name,
		Email:    email,
		JoinedAt: s.clock.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("service: failed to register user %s: %w", email, err)
	}

	utils.Info("service: user registered", map[string]any{"user_id": user.UserID})
	return user, nil
}

// GetUser returns a user with current counters
func (s *AccountService) GetUser(ctx context.Context, userID string) (models.User, error) {
	if userID == "" {
		return models.User{}, fmt.Errorf("service: %w - empty user ID", auctionerrors.ErrInvalidRequest)
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}
	return user, nil
}
