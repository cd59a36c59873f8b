package jobs

import (
	"context"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
)

// AuditLedger replays the transaction log for every tracked account and
// compares the result against the stored balance. It only reports: balances
// are never mutated by the audit.
//
// Expected balance = opening balance
//   + net of non-reverted package transactions (received minus sent)
//   + net of game transactions (credits minus debits)
//   - total of bets placed (bets debit the wallet without an audit row).
func (jr *JobRunner) AuditLedger() {
	jr.runWithRecovery("AuditLedger", func() {
		ctx := context.Background()

		accounts, err := jr.accountRepo.List(ctx, nil)
		if err != nil {
			logger.Error("Failed to list accounts for audit", "error", err)
			return
		}

		audited, divergent := 0, 0
		for i := range accounts {
			a := &accounts[i]
			if a.Balance.Unlimited() {
				// The owner's balance is untracked; nothing to replay.
				continue
			}

			expected, err := jr.expectedBalance(ctx, a)
			if err != nil {
				logger.Error("Failed to replay account", "account_id", a.ID, "error", err)
				continue
			}

			audited++
			if expected != a.Balance.Cents() {
				divergent++
				logger.Error("Ledger divergence detected",
					"account_id", a.ID,
					"role", a.Role,
					"stored_cents", a.Balance.Cents(),
					"expected_cents", expected,
					"delta_cents", a.Balance.Cents()-expected)
			}
		}

		logger.Info("Ledger audit finished", "audited", audited, "divergent", divergent)
	})
}

func (jr *JobRunner) expectedBalance(ctx context.Context, a *domain.Account) (int64, error) {
	packageNet, err := jr.packageRepo.SignedSumForAccount(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	gameNet, err := jr.gameTxRepo.SignedSumForAccount(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	bets, err := jr.sessionRepo.SumBetsForOwner(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	return a.OpeningBalanceCents + packageNet + gameNet - bets, nil
}
