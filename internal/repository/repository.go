package repository

import (
	"context"
	"database/sql"
	"time"

	"bingohall-backend/internal/domain"
)

// TxRunner executes a function inside one database transaction. The function
// either commits fully or rolls back fully; the ledger engines run every
// multi-row balance mutation through it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// AccountRepository owns account rows. The tx-scoped methods participate in
// the enclosing atomic unit; LockForUpdate takes an exclusive row lock that
// is held until that unit commits or aborts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	List(ctx context.Context, role *domain.Role) ([]domain.Account, error)
	ListBySuperior(ctx context.Context, superiorID int64, role *domain.Role) ([]domain.Account, error)
	ListSubordinateIDs(ctx context.Context, superiorID int64) ([]int64, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email, city, region string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	LockForUpdate(tx *sql.Tx, id int64) (*domain.Account, error)
	UpdateBalance(tx *sql.Tx, id int64, balance domain.Balance) error
}

// PackageTransactionRepository owns the package transaction audit rows.
type PackageTransactionRepository interface {
	Insert(tx *sql.Tx, p *domain.PackageTransaction) error
	GetByID(ctx context.Context, id int64) (*domain.PackageTransaction, error)
	GetForUpdate(tx *sql.Tx, id int64) (*domain.PackageTransaction, error)
	// MarkReverted sets status REVERTED and records the refund recipient so
	// the ledger replay can account for owner pull-backs.
	MarkReverted(tx *sql.Tx, id, refundedToID int64) error
	// ListForAccounts returns transactions where any of the ids is sender or
	// receiver, newest first. A nil ids slice means no scoping (OWNER view).
	ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.PackageTransaction, error)
	CountForAccounts(ctx context.Context, ids []int64) (int64, error)
	SumSent(ctx context.Context, accountID int64) (int64, error)
	SumReceived(ctx context.Context, accountID int64) (int64, error)
	// SignedSumForAccount returns the net cents the account gained through
	// non-reverted package transactions (received minus sent). Used by the
	// ledger replay audit.
	SignedSumForAccount(ctx context.Context, accountID int64) (int64, error)
}

// GameTransactionRepository owns the game transaction audit rows.
type GameTransactionRepository interface {
	Insert(tx *sql.Tx, g *domain.GameTransaction) error
	// ListForAccounts returns transactions for the given jester ids, newest
	// first. A nil ids slice means no scoping (OWNER view). Implementations
	// must tolerate older databases that predate the pot/cut/net columns by
	// falling back to a reduced projection.
	ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.GameTransaction, error)
	ListByJester(ctx context.Context, jesterID int64, limit, offset int) ([]domain.GameTransaction, error)
	CountForAccounts(ctx context.Context, ids []int64) (int64, error)
	// WinStats returns the count and cent sum of winning settlements
	// (wallet credited, net deducted < 0) for the given jester ids.
	WinStats(ctx context.Context, ids []int64) (int64, int64, error)
	SignedSumForAccount(ctx context.Context, accountID int64) (int64, error)
}

// GameSessionRepository owns game session rows.
type GameSessionRepository interface {
	Insert(tx *sql.Tx, s *domain.GameSession) error
	GetByID(ctx context.Context, id int64) (*domain.GameSession, error)
	GetForUpdate(tx *sql.Tx, id int64) (*domain.GameSession, error)
	MarkFinished(tx *sql.Tx, id int64) error
	// SumBetsForOwner totals every bet the owner ever placed. Bets debit the
	// wallet at placement without an audit row of their own, so the replay
	// audit needs this alongside the transaction sums.
	SumBetsForOwner(ctx context.Context, ownerID int64) (int64, error)
}

// CreditRequestRepository owns credit request rows.
type CreditRequestRepository interface {
	Create(ctx context.Context, cr *domain.CreditRequest) error
	GetByID(ctx context.Context, id int64) (*domain.CreditRequest, error)
	GetForUpdate(tx *sql.Tx, id int64) (*domain.CreditRequest, error)
	UpdateStatus(tx *sql.Tx, id int64, status domain.CreditRequestStatus) error
	ListBySuperior(ctx context.Context, superiorID int64, status *domain.CreditRequestStatus) ([]domain.CreditRequest, error)
	// RejectStalePending rejects PENDING requests created before the cutoff
	// and returns how many were touched.
	RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
