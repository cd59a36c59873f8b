package domain

import "time"

type PackageTxStatus string

const (
	PackageTxCompleted PackageTxStatus = "COMPLETED"
	PackageTxReverted  PackageTxStatus = "REVERTED"
)

// PackageTransaction records a peer-to-peer wallet transfer. Rows are append
// only; the only field that ever changes after commit is Status, and only
// COMPLETED → REVERTED.
type PackageTransaction struct {
	ID           int64           `json:"id"`
	SenderID     int64           `json:"sender_id"`
	SenderName   string          `json:"sender_name"`
	ReceiverID   int64           `json:"receiver_id"`
	ReceiverName string          `json:"receiver_name"`
	AmountCents  int64           `json:"amount"`
	Status       PackageTxStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// GameTransaction records one wager settlement against the house float.
// NetDeductedCents is signed: positive means the jester's wallet was debited
// (house paid a winner), negative means the wallet was credited (the jester
// won).
type GameTransaction struct {
	ID                int64     `json:"id"`
	JesterID          int64     `json:"jester_id"`
	JesterName        string    `json:"jester_name"`
	BetAmountCents    int64     `json:"bet_amount"`
	NumberOfCards     int       `json:"number_of_cards"`
	WinningPattern    string    `json:"winning_pattern,omitempty"`
	TotalPotCents     int64     `json:"total_pot"`
	HouseCutCents     int64     `json:"house_cut"`
	WinnerPayoutCents int64     `json:"winner_payout"`
	NetDeductedCents  int64     `json:"net_deducted"`
	BalanceAfterCents int64     `json:"balance_after"`
	CreatedAt         time.Time `json:"created_at"`
}

// CardCount reconciles the stored card count with the pot/bet derivation.
// The stored value is authoritative; the derivation exists only for legacy
// rows written before the count was recorded.
func (g *GameTransaction) CardCount() int {
	if g.NumberOfCards > 0 {
		return g.NumberOfCards
	}
	if g.BetAmountCents > 0 {
		return int(g.TotalPotCents / g.BetAmountCents)
	}
	return 0
}
