package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/service"

	"github.com/gorilla/mux"
)

type createUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Role      string `json:"role"`
	Balance   int64  `json:"balance"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	account, err := h.accounts.CreateAccount(r.Context(), claims.AccountID, service.CreateAccountInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Password:     req.Password,
		City:         req.City,
		Region:       req.Region,
		Role:         role,
		BalanceCents: req.Balance,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		role = &parsed
	}
	claims := claimsFrom(r)
	accounts, err := h.accounts.ListAccounts(r.Context(), claims.AccountID, role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"users": accounts,
		"total": len(accounts),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, fmt.Errorf("%w: invalid account id", domain.ErrInvalidRequest))
		return
	}
	claims := claimsFrom(r)
	account, err := h.accounts.GetAccount(r.Context(), claims.AccountID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	account, err := h.accounts.UpdateProfile(r.Context(), claims.AccountID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		City:      req.City,
		Region:    req.Region,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	summary, err := h.ledger.Dashboard(r.Context(), claims.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account":              summary.Account,
		"subordinate_count":    summary.SubordinateCount,
		"package_tx_count":     summary.PackageTxCount,
		"game_tx_count":        summary.GameTxCount,
		"total_sent":           summary.TotalSentCents,
		"total_received":       summary.TotalReceivedCents,
		"games_won":            summary.GamesWon,
		"total_winnings":       summary.TotalWinningsCents,
		"pending_credit_count": summary.PendingCreditCount,
	})
}

func (h *Handler) ListCreditRequests(w http.ResponseWriter, r *http.Request) {
	var status *domain.CreditRequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.CreditRequestStatus(strings.ToUpper(raw))
		switch s {
		case domain.CreditRequestPending, domain.CreditRequestApproved, domain.CreditRequestRejected:
			status = &s
		default:
			respondError(w, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidRequest, raw))
			return
		}
	}
	claims := claimsFrom(r)
	requests, err := h.transfers.ListCreditRequests(r.Context(), claims.AccountID, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"total":    len(requests),
	})
}

type creditActionRequest struct {
	Action string `json:"action"`
}

func (h *Handler) ResolveCreditRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, fmt.Errorf("%w: invalid request id", domain.ErrInvalidRequest))
		return
	}
	var req creditActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	action := domain.CreditAction(strings.ToUpper(strings.TrimSpace(req.Action)))
	resolved, err := h.transfers.ResolveCreditRequest(r.Context(), claims.AccountID, id, action)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resolved)
}
