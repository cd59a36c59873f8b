package service

import (
	"context"
	"database/sql"
	"time"

	"bingohall-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// txRunnerStub executes the atomic unit inline. Repositories are mocked, so
// the *sql.Tx handle is never dereferenced.
type txRunnerStub struct{}

func (txRunnerStub) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepo) ListBySuperior(ctx context.Context, superiorID int64, role *domain.Role) ([]domain.Account, error) {
	args := m.Called(ctx, superiorID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepo) ListSubordinateIDs(ctx context.Context, superiorID int64) ([]int64, error) {
	args := m.Called(ctx, superiorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockAccountRepo) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email, city, region string) error {
	args := m.Called(ctx, id, firstName, lastName, email, city, region)
	return args.Error(0)
}

func (m *MockAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepo) LockForUpdate(tx *sql.Tx, id int64) (*domain.Account, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) UpdateBalance(tx *sql.Tx, id int64, balance domain.Balance) error {
	args := m.Called(tx, id, balance)
	return args.Error(0)
}

type MockPackageTxRepo struct {
	mock.Mock
}

func (m *MockPackageTxRepo) Insert(tx *sql.Tx, p *domain.PackageTransaction) error {
	args := m.Called(tx, p)
	return args.Error(0)
}

func (m *MockPackageTxRepo) GetByID(ctx context.Context, id int64) (*domain.PackageTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackageTransaction), args.Error(1)
}

func (m *MockPackageTxRepo) GetForUpdate(tx *sql.Tx, id int64) (*domain.PackageTransaction, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackageTransaction), args.Error(1)
}

func (m *MockPackageTxRepo) MarkReverted(tx *sql.Tx, id, refundedToID int64) error {
	args := m.Called(tx, id, refundedToID)
	return args.Error(0)
}

func (m *MockPackageTxRepo) ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.PackageTransaction, error) {
	args := m.Called(ctx, ids, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PackageTransaction), args.Error(1)
}

func (m *MockPackageTxRepo) CountForAccounts(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageTxRepo) SumSent(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageTxRepo) SumReceived(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPackageTxRepo) SignedSumForAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockGameTxRepo struct {
	mock.Mock
}

func (m *MockGameTxRepo) Insert(tx *sql.Tx, g *domain.GameTransaction) error {
	args := m.Called(tx, g)
	return args.Error(0)
}

func (m *MockGameTxRepo) ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.GameTransaction, error) {
	args := m.Called(ctx, ids, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameTransaction), args.Error(1)
}

func (m *MockGameTxRepo) ListByJester(ctx context.Context, jesterID int64, limit, offset int) ([]domain.GameTransaction, error) {
	args := m.Called(ctx, jesterID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameTransaction), args.Error(1)
}

func (m *MockGameTxRepo) CountForAccounts(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameTxRepo) WinStats(ctx context.Context, ids []int64) (int64, int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockGameTxRepo) SignedSumForAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockGameSessionRepo struct {
	mock.Mock
}

func (m *MockGameSessionRepo) Insert(tx *sql.Tx, s *domain.GameSession) error {
	args := m.Called(tx, s)
	return args.Error(0)
}

func (m *MockGameSessionRepo) GetByID(ctx context.Context, id int64) (*domain.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSession), args.Error(1)
}

func (m *MockGameSessionRepo) GetForUpdate(tx *sql.Tx, id int64) (*domain.GameSession, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameSession), args.Error(1)
}

func (m *MockGameSessionRepo) MarkFinished(tx *sql.Tx, id int64) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *MockGameSessionRepo) SumBetsForOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCreditRequestRepo struct {
	mock.Mock
}

func (m *MockCreditRequestRepo) Create(ctx context.Context, cr *domain.CreditRequest) error {
	args := m.Called(ctx, cr)
	return args.Error(0)
}

func (m *MockCreditRequestRepo) GetByID(ctx context.Context, id int64) (*domain.CreditRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepo) GetForUpdate(tx *sql.Tx, id int64) (*domain.CreditRequest, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepo) UpdateStatus(tx *sql.Tx, id int64, status domain.CreditRequestStatus) error {
	args := m.Called(tx, id, status)
	return args.Error(0)
}

func (m *MockCreditRequestRepo) ListBySuperior(ctx context.Context, superiorID int64, status *domain.CreditRequestStatus) ([]domain.CreditRequest, error) {
	args := m.Called(ctx, superiorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditRequest), args.Error(1)
}

func (m *MockCreditRequestRepo) RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCreditRequested(toEmail, toName, requesterName string, amountCents int64) error {
	args := m.Called(toEmail, toName, requesterName, amountCents)
	return args.Error(0)
}

func (m *MockEmailService) SendCreditResolved(toEmail, toName string, amountCents int64, status domain.CreditRequestStatus) error {
	args := m.Called(toEmail, toName, amountCents, status)
	return args.Error(0)
}
