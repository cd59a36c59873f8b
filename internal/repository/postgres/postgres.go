package postgres

import (
	"database/sql"

	"bingohall-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AccountRepository
	repository.PackageTransactionRepository
	repository.GameTransactionRepository
	repository.GameSessionRepository
	repository.CreditRequestRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                           db,
		AccountRepository:            NewAccountRepository(db),
		PackageTransactionRepository: NewPackageTransactionRepository(db),
		GameTransactionRepository:    NewGameTransactionRepository(db),
		GameSessionRepository:        NewGameSessionRepository(db),
		CreditRequestRepository:      NewCreditRequestRepository(db),
	}
}
