package domain

import "errors"

// Ledger error taxonomy. Every balance-mutating operation fails with one of
// these (possibly wrapped); the HTTP layer maps them onto status codes with
// errors.Is.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyReverted   = errors.New("transaction already reverted")
	ErrSessionFinished   = errors.New("game session already finished")
	ErrRequestResolved   = errors.New("credit request already resolved")
	ErrConflict          = errors.New("concurrent modification conflict")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrDuplicatePhone    = errors.New("phone number already registered")
)
