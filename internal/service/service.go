package service

import (
	"context"
	"time"

	"bingohall-backend/internal/domain"
)

type AuthService interface {
	SignIn(ctx context.Context, phone, password string) (*domain.Account, string, error) // account, access token
	ChangePassword(ctx context.Context, accountID int64, currentPassword, newPassword string) error
}

type AccountService interface {
	CreateAccount(ctx context.Context, actorID int64, req CreateAccountInput) (*domain.Account, error)
	ListAccounts(ctx context.Context, actorID int64, role *domain.Role) ([]domain.Account, error)
	GetAccount(ctx context.Context, actorID, accountID int64) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID int64, req UpdateProfileInput) (*domain.Account, error)
	Profile(ctx context.Context, accountID int64) (*ProfileSummary, error)
}

type TransferService interface {
	SendPackage(ctx context.Context, senderID, receiverID, amountCents int64) (*TransferOutcome, error)
	RequestCredit(ctx context.Context, requesterID, amountCents int64) (*domain.CreditRequest, error)
	ResolveCreditRequest(ctx context.Context, actorID, requestID int64, action domain.CreditAction) (*domain.CreditRequest, error)
	RevertPackageTransaction(ctx context.Context, actorID, transactionID int64) (*domain.PackageTransaction, error)
	ListCreditRequests(ctx context.Context, actorID int64, status *domain.CreditRequestStatus) ([]domain.CreditRequest, error)
}

type GameService interface {
	PlaceBet(ctx context.Context, jesterID int64, cardNumbers []int, betPerCardCents int64) (*BetOutcome, error)
	SettleResult(ctx context.Context, actorID, sessionID int64, result domain.GameResult, winAmountCents int64, winningPattern string) (*SettleOutcome, error)
	EndGame(ctx context.Context, jesterID int64, req EndGameInput) (*GameEndOutcome, error)
}

type LedgerService interface {
	ListTransactions(ctx context.Context, actorID int64, filter TransactionFilter) ([]LedgerEntry, error)
	Dashboard(ctx context.Context, actorID int64) (*DashboardSummary, error)
	JesterGameHistory(ctx context.Context, jesterID int64, limit, offset int) ([]GameHistoryEntry, error)
}

type EmailService interface {
	SendCreditRequested(toEmail, toName, requesterName string, amountCents int64) error
	SendCreditResolved(toEmail, toName string, amountCents int64, status domain.CreditRequestStatus) error
}

// CreateAccountInput carries the fields an actor supplies when opening a
// subordinate account. The superior is always the actor, never a field.
type CreateAccountInput struct {
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Password     string
	City         string
	Region       string
	Role         domain.Role
	BalanceCents int64
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	City      string
	Region    string
}

type ProfileSummary struct {
	Account            *domain.Account
	TotalSentCents     int64
	TotalReceivedCents int64
}

type TransferOutcome struct {
	Transaction     *domain.PackageTransaction
	SenderBalance   domain.Balance
	ReceiverBalance domain.Balance
}

type BetOutcome struct {
	Session *domain.GameSession
	Balance domain.Balance
}

type SettleOutcome struct {
	Session     *domain.GameSession
	Transaction *domain.GameTransaction
	Balance     domain.Balance
}

type EndGameInput struct {
	BetAmountCents    int64
	NumberOfCards     int
	WinningPattern    string
	TotalPotCents     int64
	HouseCutCents     int64
	WinnerPayoutCents int64
}

type GameEndOutcome struct {
	Transaction *domain.GameTransaction
	Balance     domain.Balance
}

// TransactionFilter narrows the merged ledger feed. Type is "package",
// "game" or empty for both.
type TransactionFilter struct {
	Type   string
	Limit  int
	Offset int
}

// LedgerEntry is one row of the merged transaction feed. Exactly one of
// Package or Game is set; Kind names which.
type LedgerEntry struct {
	Kind    string
	Package *domain.PackageTransaction
	Game    *domain.GameTransaction
}

func (e LedgerEntry) createdAt() time.Time {
	if e.Package != nil {
		return e.Package.CreatedAt
	}
	if e.Game != nil {
		return e.Game.CreatedAt
	}
	return time.Time{}
}

type DashboardSummary struct {
	Account            *domain.Account
	SubordinateCount   int
	PackageTxCount     int64
	GameTxCount        int64
	TotalSentCents     int64
	TotalReceivedCents int64
	GamesWon           int64
	TotalWinningsCents int64
	PendingCreditCount int
}

// GameHistoryEntry is a jester-facing view of one settled game.
type GameHistoryEntry struct {
	Transaction   *domain.GameTransaction
	NumberOfCards int
	Reference     string
}
