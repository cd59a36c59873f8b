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

type placeBetRequest struct {
	CardNumbers []int `json:"card_numbers"`
	BetPerCard  int64 `json:"bet_per_card"`
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	outcome, err := h.games.PlaceBet(r.Context(), claims.AccountID, req.CardNumbers, req.BetPerCard)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"session": outcome.Session,
		"balance": outcome.Balance,
	})
}

type settleRequest struct {
	Result         string `json:"result"`
	WinAmount      int64  `json:"win_amount"`
	WinningPattern string `json:"winning_pattern"`
}

func (h *Handler) SettleSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, fmt.Errorf("%w: invalid session id", domain.ErrInvalidRequest))
		return
	}
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	result := domain.GameResult(strings.ToUpper(strings.TrimSpace(req.Result)))
	outcome, err := h.games.SettleResult(r.Context(), claims.AccountID, sessionID, result, req.WinAmount, req.WinningPattern)
	if err != nil {
		respondError(w, err)
		return
	}
	resp := map[string]any{
		"session": outcome.Session,
		"balance": outcome.Balance,
	}
	if outcome.Transaction != nil {
		resp["transaction"] = gameTxView(outcome.Transaction)
	}
	respondJSON(w, http.StatusOK, resp)
}

type endGameRequest struct {
	BetAmount      int64  `json:"bet_amount"`
	NumberOfCards  int    `json:"number_of_cards"`
	WinningPattern string `json:"winning_pattern"`
	TotalPot       int64  `json:"total_pot"`
	Cut            int64  `json:"cut"`
	WinAmount      int64  `json:"win_amount"`
}

func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	var req endGameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	outcome, err := h.games.EndGame(r.Context(), claims.AccountID, service.EndGameInput{
		BetAmountCents:    req.BetAmount,
		NumberOfCards:     req.NumberOfCards,
		WinningPattern:    req.WinningPattern,
		TotalPotCents:     req.TotalPot,
		HouseCutCents:     req.Cut,
		WinnerPayoutCents: req.WinAmount,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transaction": gameTxView(outcome.Transaction),
		"balance":     outcome.Balance,
	})
}

func (h *Handler) MyGameTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	claims := claimsFrom(r)
	entries, err := h.ledger.JesterGameHistory(r.Context(), claims.AccountID, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		v := gameTxView(e.Transaction)
		v["transaction_id"] = e.Reference
		v["number_of_cards"] = e.NumberOfCards
		views = append(views, v)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": views,
		"total":        len(views),
	})
}
