package service

import (
	"context"
	"fmt"
	"strings"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type accountService struct {
	accountRepo repository.AccountRepository
	packageRepo repository.PackageTransactionRepository
}

func NewAccountService(accountRepo repository.AccountRepository, packageRepo repository.PackageTransactionRepository) AccountService {
	return &accountService{accountRepo: accountRepo, packageRepo: packageRepo}
}

func (s *accountService) CreateAccount(ctx context.Context, actorID int64, req CreateAccountInput) (*domain.Account, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanCreate(req.Role) {
		return nil, fmt.Errorf("%w: %s cannot create %s accounts", domain.ErrForbidden, actor.Role, req.Role)
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", domain.ErrInvalidRequest)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidRequest)
	}
	if req.BalanceCents < 0 {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Phone:               strings.TrimSpace(req.Phone),
		Email:               strings.TrimSpace(req.Email),
		Password:            string(hash),
		City:                req.City,
		Region:              req.Region,
		Role:                req.Role,
		Balance:             domain.NewBalance(req.BalanceCents),
		OpeningBalanceCents: req.BalanceCents,
		SuperiorID:          &actor.ID,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("account created",
		"account_id", account.ID,
		"role", account.Role,
		"superior_id", actorID)
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actorID int64, role *domain.Role) ([]domain.Account, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleOwner:
		return s.accountRepo.List(ctx, role)
	case domain.RoleManager, domain.RoleSuperagent:
		return s.accountRepo.ListBySuperior(ctx, actorID, role)
	default:
		return nil, fmt.Errorf("%w: jesters have no subordinates", domain.ErrForbidden)
	}
}

func (s *accountService) GetAccount(ctx context.Context, actorID, accountID int64) (*domain.Account, error) {
	target, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if actorID == accountID {
		return target, nil
	}

	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner {
		return target, nil
	}
	if target.SuperiorID != nil && *target.SuperiorID == actorID {
		return target, nil
	}
	return nil, fmt.Errorf("%w: account is outside your span", domain.ErrForbidden)
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID int64, req UpdateProfileInput) (*domain.Account, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first name is required", domain.ErrInvalidRequest)
	}
	err := s.accountRepo.UpdateProfile(ctx, accountID,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Email), req.City, req.Region)
	if err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, accountID)
}

func (s *accountService) Profile(ctx context.Context, accountID int64) (*ProfileSummary, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sent, err := s.packageRepo.SumSent(ctx, accountID)
	if err != nil {
		return nil, err
	}
	received, err := s.packageRepo.SumReceived(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &ProfileSummary{
		Account:            account,
		TotalSentCents:     sent,
		TotalReceivedCents: received,
	}, nil
}
