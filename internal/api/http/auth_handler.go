package http

import (
	"fmt"
	"net/http"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/service"
)

type Handler struct {
	auth      service.AuthService
	accounts  service.AccountService
	transfers service.TransferService
	games     service.GameService
	ledger    service.LedgerService
}

func NewHandler(
	auth service.AuthService,
	accounts service.AccountService,
	transfers service.TransferService,
	games service.GameService,
	ledger service.LedgerService,
) *Handler {
	return &Handler{
		auth:      auth,
		accounts:  accounts,
		transfers: transfers,
		games:     games,
		ledger:    ledger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type signInRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	Account     *domain.Account `json:"account"`
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	account, token, err := h.auth.SignIn(r.Context(), req.Phone, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, signInResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Account:     account,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondError(w, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidRequest))
		return
	}
	claims := claimsFrom(r)
	if err := h.auth.ChangePassword(r.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "password updated")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	profile, err := h.accounts.Profile(r.Context(), claims.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account":        profile.Account,
		"total_sent":     profile.TotalSentCents,
		"total_received": profile.TotalReceivedCents,
	})
}
