package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/service"
)

type sendPackageRequest struct {
	ReceiverID int64 `json:"receiver_id"`
	Amount     int64 `json:"amount"`
}

func (h *Handler) SendPackage(w http.ResponseWriter, r *http.Request) {
	var req sendPackageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	outcome, err := h.transfers.SendPackage(r.Context(), claims.AccountID, req.ReceiverID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transaction":      packageTxView(outcome.Transaction),
		"sender_balance":   outcome.SenderBalance,
		"receiver_balance": outcome.ReceiverBalance,
	})
}

type requestPackageRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) RequestPackage(w http.ResponseWriter, r *http.Request) {
	var req requestPackageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	cr, err := h.transfers.RequestCredit(r.Context(), claims.AccountID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cr)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	claims := claimsFrom(r)
	entries, err := h.ledger.ListTransactions(r.Context(), claims.AccountID, service.TransactionFilter{
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case "package":
			views = append(views, packageTxView(e.Package))
		case "game":
			views = append(views, gameTxView(e.Game))
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": views,
		"total":        len(views),
	})
}

type revertRequest struct {
	TransactionID json.RawMessage `json:"transaction_id"`
}

func (h *Handler) RevertTransaction(w http.ResponseWriter, r *http.Request) {
	var req revertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	id, err := parseTransactionRef(req.TransactionID)
	if err != nil {
		respondError(w, err)
		return
	}
	claims := claimsFrom(r)
	reverted, err := h.transfers.RevertPackageTransaction(r.Context(), claims.AccountID, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, packageTxView(reverted))
}

// parseTransactionRef accepts either a bare numeric id or the "TXN-<id>"
// form that the API renders.
func parseTransactionRef(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: transaction_id is required", domain.ErrInvalidRequest)
	}
	var id int64
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimPrefix(strings.TrimSpace(s), "TXN-")
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: transaction_id must be an integer or a TXN-<id> string", domain.ErrInvalidRequest)
}

func transactionRef(id int64) string {
	return fmt.Sprintf("TXN-%d", id)
}

func packageTxView(p *domain.PackageTransaction) map[string]any {
	return map[string]any{
		"transaction_id": transactionRef(p.ID),
		"kind":           "package",
		"sender_id":      p.SenderID,
		"sender_name":    p.SenderName,
		"receiver_id":    p.ReceiverID,
		"receiver_name":  p.ReceiverName,
		"amount":         p.AmountCents,
		"status":         p.Status,
		"created_at":     p.CreatedAt.Format(time.RFC3339),
	}
}

func gameTxView(g *domain.GameTransaction) map[string]any {
	return map[string]any{
		"transaction_id":  transactionRef(g.ID),
		"kind":            "game",
		"jester_id":       g.JesterID,
		"jester_name":     g.JesterName,
		"bet_amount":      g.BetAmountCents,
		"number_of_cards": g.CardCount(),
		"winning_pattern": g.WinningPattern,
		"total_pot":       g.TotalPotCents,
		"house_cut":       g.HouseCutCents,
		"winner_payout":   g.WinnerPayoutCents,
		"net_deducted":    g.NetDeductedCents,
		"created_at":      g.CreatedAt.Format(time.RFC3339),
	}
}
