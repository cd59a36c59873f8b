package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"

	"github.com/lib/pq"
)

type gameTxRepository struct {
	db *sql.DB
}

func NewGameTransactionRepository(db *sql.DB) repository.GameTransactionRepository {
	return &gameTxRepository{db: db}
}

const gameTxColumns = `id, jester_id, jester_name, bet_amount_cents, number_of_cards,
	COALESCE(winning_pattern, ''), total_pot_cents, house_cut_cents,
	winner_payout_cents, net_deducted_cents, balance_after_cents, created_at`

// legacyGameTxColumns is the projection for databases that predate the
// pot/cut/net columns. Missing values come back as zero.
const legacyGameTxColumns = `id, jester_id, jester_name, bet_amount_cents, number_of_cards,
	COALESCE(winning_pattern, ''), winner_payout_cents, created_at`

func (r *gameTxRepository) Insert(tx *sql.Tx, g *domain.GameTransaction) error {
	query := `INSERT INTO game_transactions (jester_id, jester_name, bet_amount_cents, number_of_cards,
	            winning_pattern, total_pot_cents, house_cut_cents, winner_payout_cents,
	            net_deducted_cents, balance_after_cents)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
	          RETURNING id, created_at`
	err := tx.QueryRow(query,
		g.JesterID, g.JesterName, g.BetAmountCents, g.NumberOfCards,
		g.WinningPattern, g.TotalPotCents, g.HouseCutCents,
		g.WinnerPayoutCents, g.NetDeductedCents, g.BalanceAfterCents,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game transaction: %w", err)
	}
	return nil
}

func (r *gameTxRepository) ListForAccounts(ctx context.Context, ids []int64, limit, offset int) ([]domain.GameTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	txs, err := r.list(ctx, gameTxColumns, scanGameTx, ids, limit, offset)
	if err != nil && isUndefinedColumn(err) {
		// Older databases miss the pot/cut/net columns; degrade to the
		// reduced projection rather than failing the whole read.
		return r.list(ctx, legacyGameTxColumns, scanLegacyGameTx, ids, limit, offset)
	}
	return txs, err
}

func (r *gameTxRepository) ListByJester(ctx context.Context, jesterID int64, limit, offset int) ([]domain.GameTransaction, error) {
	return r.ListForAccounts(ctx, []int64{jesterID}, limit, offset)
}

type gameTxScanner func(row interface{ Scan(...any) error }) (*domain.GameTransaction, error)

func scanGameTx(row interface{ Scan(...any) error }) (*domain.GameTransaction, error) {
	var g domain.GameTransaction
	err := row.Scan(
		&g.ID, &g.JesterID, &g.JesterName, &g.BetAmountCents, &g.NumberOfCards,
		&g.WinningPattern, &g.TotalPotCents, &g.HouseCutCents,
		&g.WinnerPayoutCents, &g.NetDeductedCents, &g.BalanceAfterCents, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func scanLegacyGameTx(row interface{ Scan(...any) error }) (*domain.GameTransaction, error) {
	var g domain.GameTransaction
	err := row.Scan(
		&g.ID, &g.JesterID, &g.JesterName, &g.BetAmountCents, &g.NumberOfCards,
		&g.WinningPattern, &g.WinnerPayoutCents, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gameTxRepository) list(ctx context.Context, columns string, scan gameTxScanner, ids []int64, limit, offset int) ([]domain.GameTransaction, error) {
	var rows *sql.Rows
	var err error
	if ids == nil {
		query := `SELECT ` + columns + ` FROM game_transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	} else {
		query := `SELECT ` + columns + ` FROM game_transactions WHERE jester_id = ANY($1)
		          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, pq.Array(ids), limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list game transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.GameTransaction
	for rows.Next() {
		g, err := scan(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *g)
	}
	return txs, rows.Err()
}

func (r *gameTxRepository) CountForAccounts(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	var err error
	if ids == nil {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM game_transactions`).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT count(*) FROM game_transactions WHERE jester_id = ANY($1)`, pq.Array(ids),
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count game transactions: %w", err)
	}
	return count, nil
}

func (r *gameTxRepository) WinStats(ctx context.Context, ids []int64) (int64, int64, error) {
	var count, total int64
	var err error
	if ids == nil {
		err = r.db.QueryRowContext(ctx,
			`SELECT count(*), COALESCE(SUM(-net_deducted_cents), 0) FROM game_transactions WHERE net_deducted_cents < 0`,
		).Scan(&count, &total)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT count(*), COALESCE(SUM(-net_deducted_cents), 0) FROM game_transactions
			 WHERE jester_id = ANY($1) AND net_deducted_cents < 0`, pq.Array(ids),
		).Scan(&count, &total)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("game win stats: %w", err)
	}
	return count, total, nil
}

func (r *gameTxRepository) SignedSumForAccount(ctx context.Context, accountID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(-net_deducted_cents), 0) FROM game_transactions WHERE jester_id = $1`,
		accountID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum game transactions: %w", err)
	}
	return total, nil
}
