package service

import (
	"context"
	"database/sql"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository"
)

type gameService struct {
	tx          repository.TxRunner
	accountRepo repository.AccountRepository
	sessionRepo repository.GameSessionRepository
	gameTxRepo  repository.GameTransactionRepository
}

func NewGameService(
	tx repository.TxRunner,
	accountRepo repository.AccountRepository,
	sessionRepo repository.GameSessionRepository,
	gameTxRepo repository.GameTransactionRepository,
) GameService {
	return &gameService{
		tx:          tx,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		gameTxRepo:  gameTxRepo,
	}
}

func (s *gameService) PlaceBet(ctx context.Context, jesterID int64, cardNumbers []int, betPerCardCents int64) (*BetOutcome, error) {
	if len(cardNumbers) == 0 {
		return nil, fmt.Errorf("%w: no cards selected", domain.ErrInvalidRequest)
	}
	if betPerCardCents <= 0 {
		return nil, fmt.Errorf("%w: bet per card must be positive", domain.ErrInvalidRequest)
	}

	player, err := s.accountRepo.GetByID(ctx, jesterID)
	if err != nil {
		return nil, err
	}
	if player.Role != domain.RoleJester {
		return nil, fmt.Errorf("%w: only jesters can place bets", domain.ErrForbidden)
	}

	totalBet := betPerCardCents * int64(len(cardNumbers))

	var outcome BetOutcome
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		player, err := s.accountRepo.LockForUpdate(tx, jesterID)
		if err != nil {
			return err
		}
		if !player.Balance.Covers(totalBet) {
			return domain.ErrInsufficientFunds
		}
		newBal, err := player.Balance.Add(-totalBet)
		if err != nil {
			return err
		}
		if err := s.accountRepo.UpdateBalance(tx, player.ID, newBal); err != nil {
			return err
		}

		session := &domain.GameSession{
			OwnerID:         player.ID,
			BetPerCardCents: betPerCardCents,
			TotalBetCents:   totalBet,
			SelectedCards:   cardNumbers,
			Status:          domain.GameSessionActive,
		}
		if err := s.sessionRepo.Insert(tx, session); err != nil {
			return err
		}

		outcome = BetOutcome{Session: session, Balance: newBal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("bet placed",
		"session_id", outcome.Session.ID,
		"jester_id", jesterID,
		"cards", len(cardNumbers),
		"total_bet_cents", totalBet)
	return &outcome, nil
}

func (s *gameService) SettleResult(ctx context.Context, actorID, sessionID int64, result domain.GameResult, winAmountCents int64, winningPattern string) (*SettleOutcome, error) {
	if result != domain.GameResultWin && result != domain.GameResultLose {
		return nil, fmt.Errorf("%w: unknown result %q", domain.ErrInvalidRequest, result)
	}
	if winAmountCents < 0 {
		return nil, fmt.Errorf("%w: win amount cannot be negative", domain.ErrInvalidRequest)
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != actorID {
		return nil, fmt.Errorf("%w: session belongs to another player", domain.ErrForbidden)
	}
	if session.Status == domain.GameSessionFinished {
		return nil, domain.ErrSessionFinished
	}

	var outcome SettleOutcome
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		session, err := s.sessionRepo.GetForUpdate(tx, sessionID)
		if err != nil {
			return err
		}
		if session.Status == domain.GameSessionFinished {
			return domain.ErrSessionFinished
		}

		player, err := s.accountRepo.LockForUpdate(tx, session.OwnerID)
		if err != nil {
			return err
		}
		balance := player.Balance

		// A loss keeps the stake debited at placement. Only a win with a
		// positive amount moves money back to the player.
		if result == domain.GameResultWin && winAmountCents > 0 {
			newBal, err := player.Balance.Add(winAmountCents)
			if err != nil {
				return err
			}
			if err := s.accountRepo.UpdateBalance(tx, player.ID, newBal); err != nil {
				return err
			}
			balance = newBal

			g := &domain.GameTransaction{
				JesterID:          player.ID,
				JesterName:        player.Name(),
				BetAmountCents:    session.BetPerCardCents,
				NumberOfCards:     len(session.SelectedCards),
				WinningPattern:    winningPattern,
				TotalPotCents:     session.TotalBetCents,
				WinnerPayoutCents: winAmountCents,
				NetDeductedCents:  -winAmountCents,
				BalanceAfterCents: newBal.Cents(),
			}
			if err := s.gameTxRepo.Insert(tx, g); err != nil {
				return err
			}
			outcome.Transaction = g
		}

		if err := s.sessionRepo.MarkFinished(tx, session.ID); err != nil {
			return err
		}
		session.Status = domain.GameSessionFinished
		outcome.Session = session
		outcome.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("game session settled",
		"session_id", sessionID,
		"result", result,
		"win_amount_cents", winAmountCents)
	return &outcome, nil
}

func (s *gameService) EndGame(ctx context.Context, jesterID int64, req EndGameInput) (*GameEndOutcome, error) {
	operator, err := s.accountRepo.GetByID(ctx, jesterID)
	if err != nil {
		return nil, err
	}
	if operator.Role != domain.RoleJester {
		return nil, fmt.Errorf("%w: only jesters operate games", domain.ErrForbidden)
	}

	payout := req.WinnerPayoutCents
	if payout == 0 {
		payout = req.TotalPotCents - req.HouseCutCents
	}
	if payout < 0 {
		return nil, fmt.Errorf("%w: payout cannot be negative", domain.ErrInvalidRequest)
	}

	// The explicit card count wins over the pot/bet derivation; the
	// derivation only backfills requests that never sent a count.
	cards := req.NumberOfCards
	if cards == 0 && req.BetAmountCents > 0 {
		cards = int(req.TotalPotCents / req.BetAmountCents)
	}

	var outcome GameEndOutcome
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		operator, err := s.accountRepo.LockForUpdate(tx, jesterID)
		if err != nil {
			return err
		}
		if !operator.Balance.Covers(payout) {
			return domain.ErrInsufficientFunds
		}
		newBal, err := operator.Balance.Add(-payout)
		if err != nil {
			return err
		}
		if err := s.accountRepo.UpdateBalance(tx, operator.ID, newBal); err != nil {
			return err
		}

		g := &domain.GameTransaction{
			JesterID:          operator.ID,
			JesterName:        operator.Name(),
			BetAmountCents:    req.BetAmountCents,
			NumberOfCards:     cards,
			WinningPattern:    req.WinningPattern,
			TotalPotCents:     req.TotalPotCents,
			HouseCutCents:     req.HouseCutCents,
			WinnerPayoutCents: payout,
			NetDeductedCents:  payout,
			BalanceAfterCents: newBal.Cents(),
		}
		if err := s.gameTxRepo.Insert(tx, g); err != nil {
			return err
		}

		outcome = GameEndOutcome{Transaction: g, Balance: newBal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("game ended",
		"transaction_id", outcome.Transaction.ID,
		"jester_id", jesterID,
		"payout_cents", payout)
	return &outcome, nil
}
