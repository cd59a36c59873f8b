package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bingohall-backend/internal/domain"

	"github.com/lib/pq"
)

// WithTx runs fn inside a database transaction. It commits if fn returns
// nil, otherwise it rolls back and returns fn's error. The transaction is
// not tied to caller cancellation beyond Begin: once the atomic unit starts
// it runs to commit or rollback, never to a half-applied state.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after error: %v (original: %w)", rbErr, err)
		}
		return mapRetryable(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapRetryable(err))
	}

	return nil
}

// mapRetryable folds lock contention and serialization failures into
// domain.ErrConflict so callers can surface them as retryable.
func mapRetryable(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "55P03", "40001", "40P01", "57014":
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
