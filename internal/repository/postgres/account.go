package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, first_name, last_name, phone, COALESCE(email, ''), password,
	COALESCE(city, ''), COALESCE(region, ''), role, balance_cents, opening_balance_cents,
	superior_id, created_at`

// scanAccount reads one account row. A NULL balance_cents column means the
// balance is untracked (OWNER); anything else is a concrete cent amount.
func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	var balance sql.NullInt64
	var superior sql.NullInt64
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Phone, &a.Email, &a.Password,
		&a.City, &a.Region, &a.Role, &balance, &a.OpeningBalanceCents,
		&superior, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if balance.Valid {
		a.Balance = domain.NewBalance(balance.Int64)
	} else {
		a.Balance = domain.UnlimitedBalance()
	}
	if superior.Valid {
		a.SuperiorID = &superior.Int64
	}
	return &a, nil
}

func balanceParam(b domain.Balance) sql.NullInt64 {
	if b.Unlimited() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: b.Cents(), Valid: true}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (first_name, last_name, phone, email, password, city, region, role, balance_cents, opening_balance_cents, superior_id)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		account.FirstName, account.LastName, account.Phone, account.Email,
		account.Password, account.City, account.Region, account.Role,
		balanceParam(account.Balance), account.OpeningBalanceCents, account.SuperiorID,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePhone
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *accountRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone = $1`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, phone))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *accountRepository) List(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1::text IS NULL OR role = $1) ORDER BY id`
	return r.listAccounts(ctx, query, roleParam(role))
}

func (r *accountRepository) ListBySuperior(ctx context.Context, superiorID int64, role *domain.Role) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
	          WHERE superior_id = $1 AND ($2::text IS NULL OR role = $2) ORDER BY id`
	return r.listAccounts(ctx, query, superiorID, roleParam(role))
}

func roleParam(role *domain.Role) sql.NullString {
	if role == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*role), Valid: true}
}

func (r *accountRepository) listAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) ListSubordinateIDs(ctx context.Context, superiorID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM accounts WHERE superior_id = $1 ORDER BY id`, superiorID)
	if err != nil {
		return nil, fmt.Errorf("list subordinate ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email, city, region string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET first_name = $1, last_name = $2, email = NULLIF($3, ''), city = $4, region = $5 WHERE id = $6`,
		firstName, lastName, email, city, region, id,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET password = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res)
}

// LockForUpdate reads an account under an exclusive row lock. The lock is
// scoped to tx; concurrent lockers of the same id block until tx finishes.
func (r *accountRepository) LockForUpdate(tx *sql.Tx, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	a, err := scanAccount(tx.QueryRow(query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return a, nil
}

func (r *accountRepository) UpdateBalance(tx *sql.Tx, id int64, balance domain.Balance) error {
	res, err := tx.Exec(`UPDATE accounts SET balance_cents = $1 WHERE id = $2`, balanceParam(balance), id)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
