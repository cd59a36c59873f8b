package domain

import "time"

type GameSessionStatus string

const (
	GameSessionActive   GameSessionStatus = "ACTIVE"
	GameSessionFinished GameSessionStatus = "FINISHED"
)

type GameResult string

const (
	GameResultWin  GameResult = "WIN"
	GameResultLose GameResult = "LOSE"
)

// GameSession tracks one placed bet from placement to settlement. The only
// transition is ACTIVE → FINISHED.
type GameSession struct {
	ID              int64             `json:"id"`
	OwnerID         int64             `json:"owner_id"`
	BetPerCardCents int64             `json:"bet_amount_per_card"`
	TotalBetCents   int64             `json:"total_bet"`
	SelectedCards   []int             `json:"selected_cards"`
	Status          GameSessionStatus `json:"status"`
	TotalPotCents   int64             `json:"total_pot,omitempty"`
	HouseCutCents   int64             `json:"house_cut,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}
