package service

import (
	"context"
	"errors"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository"
	"bingohall-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid phone or password")

type authService struct {
	accountRepo repository.AccountRepository
	tokens      security.TokenManager
}

func NewAuthService(accountRepo repository.AccountRepository, tokens security.TokenManager) AuthService {
	return &authService{accountRepo: accountRepo, tokens: tokens}
}

func (s *authService) SignIn(ctx context.Context, phone, password string) (*domain.Account, string, error) {
	account, err := s.accountRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	logger.Info("account signed in", "account_id", account.ID, "role", account.Role)
	return account, token, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountID int64, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", domain.ErrInvalidRequest)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accountRepo.UpdatePassword(ctx, accountID, string(hash))
}
