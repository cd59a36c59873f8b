package jobs

import (
	"context"
	"time"

	"bingohall-backend/internal/logger"
)

// RejectStaleCreditRequests auto-rejects PENDING credit requests older than
// the configured age. REJECTED is terminal, so a superior who missed the
// request cannot accidentally approve money weeks later.
func (jr *JobRunner) RejectStaleCreditRequests() {
	jr.runWithRecovery("RejectStaleCreditRequests", func() {
		ctx := context.Background()

		staleAfter := time.Duration(jr.config.Credit.StaleAfterDays) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-staleAfter)

		rejected, err := jr.creditRepo.RejectStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to reject stale credit requests", "error", err)
			return
		}
		if rejected > 0 {
			logger.Info("Rejected stale credit requests", "count", rejected, "cutoff", cutoff)
		}
	})
}
