package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/security"
	"bingohall-backend/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("encode response", "error", err)
		}
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"detail": msg})
}

// respondError maps the ledger error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		respondMessage(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyReverted),
		errors.Is(err, domain.ErrSessionFinished),
		errors.Is(err, domain.ErrRequestResolved),
		errors.Is(err, domain.ErrConflict):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDuplicatePhone),
		errors.Is(err, domain.ErrInvalidRequest):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidRequest
	}
	return nil
}
