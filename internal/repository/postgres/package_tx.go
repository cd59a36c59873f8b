package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"

	"github.com/lib/pq"
)

type packageTxRepository struct {
	db *sql.DB
}

func NewPackageTransactionRepository(db *sql.DB) repository.PackageTransactionRepository {
	return &packageTxRepository{db: db}
}

const packageTxColumns = `id, sender_id, sender_name, receiver_id, receiver_name, amount_cents, status, created_at`

func scanPackageTx(row interface{ Scan(...any) error }) (*domain.PackageTransaction, error) {
	var p domain.PackageTransaction
	err := row.Scan(
		&p.ID, &p.SenderID, &p.SenderName, &p.ReceiverID, &p.ReceiverName,
		&p.AmountCents, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageTxRepository) Insert(tx *sql.Tx, p *domain.PackageTransaction) error {
	query := `INSERT INTO package_transactions (sender_id, sender_name, receiver_id, receiver_name, amount_cents, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := tx.QueryRow(query,
		p.SenderID, p.SenderName, p.ReceiverID, p.ReceiverName, p.AmountCents, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert package transaction: %w", err)
	}
	return nil
}

func (r *packageTxRepository) GetByID(ctx context.Context, id int64) (*domain.PackageTransaction, error) {
	query := `SELECT ` + packageTxColumns + ` FROM package_transactions WHERE id = $1`
	p, err := scanPackageTx(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

// GetForUpdate locks the transaction row so a concurrent revert of the same
// transaction blocks until this atomic unit finishes.
func (r *packageTxRepository) GetForUpdate(tx *sql.Tx, id int64) (*domain.PackageTransaction, error) {
	query := `SELECT ` + packageTxColumns + ` FROM package_transactions WHERE id = $1 FOR UPDATE`
	p, err := scanPackageTx(tx.QueryRow(query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

// MarkReverted flips the row to REVERTED and records who the refund went
// to. The refund target differs from the sender only when an owner reverts
// somebody else's transfer.
func (r *packageTxRepository) MarkReverted(tx *sql.Tx, id, refundedToID int64) error {
	res, err := tx.Exec(
		`UPDATE package_transactions SET status = 'REVERTED', reverted_to = $1 WHERE id = $2`,
		refundedToID, id,
	)
	if err != nil {
		return fmt.Errorf("mark package transaction reverted: %w", err)
	}
	return requireRow(res)
}

func (r *packageTxRepository) ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.PackageTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows *sql.Rows
	var err error
	if ids == nil {
		query := `SELECT ` + packageTxColumns + ` FROM package_transactions
		          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	} else {
		query := `SELECT ` + packageTxColumns + ` FROM package_transactions
		          WHERE sender_id = ANY($1) OR receiver_id = ANY($1)
		          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, pq.Array(ids), limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list package transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.PackageTransaction
	for rows.Next() {
		p, err := scanPackageTx(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *p)
	}
	return txs, rows.Err()
}

func (r *packageTxRepository) CountForAccounts(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	var err error
	if ids == nil {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM package_transactions`).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT count(*) FROM package_transactions WHERE sender_id = ANY($1) OR receiver_id = ANY($1)`,
			pq.Array(ids),
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count package transactions: %w", err)
	}
	return count, nil
}

func (r *packageTxRepository) SumSent(ctx context.Context, accountID int64) (int64, error) {
	return r.sum(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM package_transactions WHERE sender_id = $1 AND status <> 'REVERTED'`,
		accountID)
}

func (r *packageTxRepository) SumReceived(ctx context.Context, accountID int64) (int64, error) {
	return r.sum(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM package_transactions WHERE receiver_id = $1 AND status <> 'REVERTED'`,
		accountID)
}

// SignedSumForAccount nets the account's package history. A reverted row is
// a wash for the receiver, and for the sender too unless the refund went to
// someone else (owner pull-back), in which case the sender's debit stands.
func (r *packageTxRepository) SignedSumForAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM(CASE
			WHEN receiver_id = $1 AND status <> 'REVERTED' THEN amount_cents
			WHEN sender_id = $1 AND (status <> 'REVERTED' OR reverted_to <> sender_id) THEN -amount_cents
			ELSE 0
		END), 0)
		FROM package_transactions
		WHERE sender_id = $1 OR receiver_id = $1`,
		accountID)
}

func (r *packageTxRepository) sum(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum package transactions: %w", err)
	}
	return total, nil
}
