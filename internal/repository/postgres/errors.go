package postgres

import (
	"database/sql"
	"errors"

	"bingohall-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqUndefinedColumn = "42703"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isUndefinedColumn(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedColumn
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
