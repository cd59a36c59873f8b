package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"
)

type gameSessionRepository struct {
	db *sql.DB
}

func NewGameSessionRepository(db *sql.DB) repository.GameSessionRepository {
	return &gameSessionRepository{db: db}
}

const gameSessionColumns = `id, owner_id, bet_per_card_cents, total_bet_cents, selected_cards,
	status, total_pot_cents, house_cut_cents, created_at`

func scanGameSession(row interface{ Scan(...any) error }) (*domain.GameSession, error) {
	var s domain.GameSession
	var cards []byte
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.BetPerCardCents, &s.TotalBetCents, &cards,
		&s.Status, &s.TotalPotCents, &s.HouseCutCents, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cards, &s.SelectedCards); err != nil {
		return nil, fmt.Errorf("decode selected cards: %w", err)
	}
	return &s, nil
}

func (r *gameSessionRepository) Insert(tx *sql.Tx, s *domain.GameSession) error {
	cards, err := json.Marshal(s.SelectedCards)
	if err != nil {
		return fmt.Errorf("encode selected cards: %w", err)
	}
	query := `INSERT INTO game_sessions (owner_id, bet_per_card_cents, total_bet_cents, selected_cards, status, total_pot_cents, house_cut_cents)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	err = tx.QueryRow(query,
		s.OwnerID, s.BetPerCardCents, s.TotalBetCents, cards, s.Status,
		s.TotalPotCents, s.HouseCutCents,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game session: %w", err)
	}
	return nil
}

func (r *gameSessionRepository) GetByID(ctx context.Context, id int64) (*domain.GameSession, error) {
	query := `SELECT ` + gameSessionColumns + ` FROM game_sessions WHERE id = $1`
	s, err := scanGameSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s, nil
}

// GetForUpdate locks the session row so concurrent settlements of the same
// session serialize; the loser of the race sees FINISHED.
func (r *gameSessionRepository) GetForUpdate(tx *sql.Tx, id int64) (*domain.GameSession, error) {
	query := `SELECT ` + gameSessionColumns + ` FROM game_sessions WHERE id = $1 FOR UPDATE`
	s, err := scanGameSession(tx.QueryRow(query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s, nil
}

func (r *gameSessionRepository) MarkFinished(tx *sql.Tx, id int64) error {
	res, err := tx.Exec(`UPDATE game_sessions SET status = $1 WHERE id = $2`, domain.GameSessionFinished, id)
	if err != nil {
		return fmt.Errorf("finish game session: %w", err)
	}
	return requireRow(res)
}

func (r *gameSessionRepository) SumBetsForOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_bet_cents), 0) FROM game_sessions WHERE owner_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum session bets: %w", err)
	}
	return total, nil
}
