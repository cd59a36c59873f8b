package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"
)

type creditRequestRepository struct {
	db *sql.DB
}

func NewCreditRequestRepository(db *sql.DB) repository.CreditRequestRepository {
	return &creditRequestRepository{db: db}
}

const creditRequestColumns = `id, requester_id, superior_id, amount_cents, status, created_at`

func scanCreditRequest(row interface{ Scan(...any) error }) (*domain.CreditRequest, error) {
	var cr domain.CreditRequest
	err := row.Scan(&cr.ID, &cr.RequesterID, &cr.SuperiorID, &cr.AmountCents, &cr.Status, &cr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *creditRequestRepository) Create(ctx context.Context, cr *domain.CreditRequest) error {
	query := `INSERT INTO credit_requests (requester_id, superior_id, amount_cents, status)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, cr.RequesterID, cr.SuperiorID, cr.AmountCents, cr.Status).
		Scan(&cr.ID, &cr.CreatedAt)
	if err != nil {
		return fmt.Errorf("create credit request: %w", err)
	}
	return nil
}

func (r *creditRequestRepository) GetByID(ctx context.Context, id int64) (*domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE id = $1`
	cr, err := scanCreditRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return cr, nil
}

// GetForUpdate locks the request row so two concurrent approvals of the same
// request serialize; the second sees the terminal status.
func (r *creditRequestRepository) GetForUpdate(tx *sql.Tx, id int64) (*domain.CreditRequest, error) {
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE id = $1 FOR UPDATE`
	cr, err := scanCreditRequest(tx.QueryRow(query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return cr, nil
}

func (r *creditRequestRepository) UpdateStatus(tx *sql.Tx, id int64, status domain.CreditRequestStatus) error {
	res, err := tx.Exec(`UPDATE credit_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update credit request status: %w", err)
	}
	return requireRow(res)
}

func (r *creditRequestRepository) ListBySuperior(ctx context.Context, superiorID int64, status *domain.CreditRequestStatus) ([]domain.CreditRequest, error) {
	var statusParam sql.NullString
	if status != nil {
		statusParam = sql.NullString{String: string(*status), Valid: true}
	}
	query := `SELECT ` + creditRequestColumns + ` FROM credit_requests
	          WHERE superior_id = $1 AND ($2::text IS NULL OR status = $2)
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, superiorID, statusParam)
	if err != nil {
		return nil, fmt.Errorf("list credit requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.CreditRequest
	for rows.Next() {
		cr, err := scanCreditRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *cr)
	}
	return requests, rows.Err()
}

func (r *creditRequestRepository) RejectStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credit_requests SET status = $1 WHERE status = $2 AND created_at < $3`,
		domain.CreditRequestRejected, domain.CreditRequestPending, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("reject stale credit requests: %w", err)
	}
	return res.RowsAffected()
}
