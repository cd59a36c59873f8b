package jobs

import (
	"bingohall-backend/internal/config"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	accountRepo repository.AccountRepository
	packageRepo repository.PackageTransactionRepository
	gameTxRepo  repository.GameTransactionRepository
	sessionRepo repository.GameSessionRepository
	creditRepo  repository.CreditRequestRepository
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	accountRepo repository.AccountRepository,
	packageRepo repository.PackageTransactionRepository,
	gameTxRepo repository.GameTransactionRepository,
	sessionRepo repository.GameSessionRepository,
	creditRepo repository.CreditRequestRepository,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		accountRepo: accountRepo,
		packageRepo: packageRepo,
		gameTxRepo:  gameTxRepo,
		sessionRepo: sessionRepo,
		creditRepo:  creditRepo,
		config:      cfg,
	}
}

// Config returns the runner's configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every nightly job once (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.RejectStaleCreditRequests()
	jr.AuditLedger()
}
