package service

import (
	"context"
	"fmt"
	"sort"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/repository"
)

type ledgerService struct {
	accountRepo repository.AccountRepository
	packageRepo repository.PackageTransactionRepository
	gameTxRepo  repository.GameTransactionRepository
	creditRepo  repository.CreditRequestRepository
}

func NewLedgerService(
	accountRepo repository.AccountRepository,
	packageRepo repository.PackageTransactionRepository,
	gameTxRepo repository.GameTransactionRepository,
	creditRepo repository.CreditRequestRepository,
) LedgerService {
	return &ledgerService{
		accountRepo: accountRepo,
		packageRepo: packageRepo,
		gameTxRepo:  gameTxRepo,
		creditRepo:  creditRepo,
	}
}

// scopeIDs returns the account ids whose transactions the actor may see.
// nil means unscoped: the owner sees the whole ledger.
func (s *ledgerService) scopeIDs(ctx context.Context, actor *domain.Account) ([]int64, error) {
	switch actor.Role {
	case domain.RoleOwner:
		return nil, nil
	case domain.RoleManager, domain.RoleSuperagent:
		ids, err := s.accountRepo.ListSubordinateIDs(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return append(ids, actor.ID), nil
	default:
		return []int64{actor.ID}, nil
	}
}

func (s *ledgerService) ListTransactions(ctx context.Context, actorID int64, filter TransactionFilter) ([]LedgerEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ids, err := s.scopeIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	switch filter.Type {
	case "package":
		txs, err := s.packageRepo.ListForAccounts(ctx, ids, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
		entries := make([]LedgerEntry, 0, len(txs))
		for i := range txs {
			entries = append(entries, LedgerEntry{Kind: "package", Package: &txs[i]})
		}
		return entries, nil
	case "game":
		txs, err := s.gameTxRepo.ListForAccounts(ctx, ids, filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
		entries := make([]LedgerEntry, 0, len(txs))
		for i := range txs {
			entries = append(entries, LedgerEntry{Kind: "game", Game: &txs[i]})
		}
		return entries, nil
	case "":
		return s.mergedFeed(ctx, ids, filter.Limit, filter.Offset)
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidRequest, filter.Type)
	}
}

// mergedFeed interleaves both transaction kinds newest first. Each side is
// over-fetched by the offset so the merged window stays correct.
func (s *ledgerService) mergedFeed(ctx context.Context, ids []int64, limit, offset int) ([]LedgerEntry, error) {
	fetch := limit + offset
	pkgs, err := s.packageRepo.ListForAccounts(ctx, ids, fetch, 0)
	if err != nil {
		return nil, err
	}
	games, err := s.gameTxRepo.ListForAccounts(ctx, ids, fetch, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]LedgerEntry, 0, len(pkgs)+len(games))
	for i := range pkgs {
		entries = append(entries, LedgerEntry{Kind: "package", Package: &pkgs[i]})
	}
	for i := range games {
		entries = append(entries, LedgerEntry{Kind: "game", Game: &games[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].createdAt().After(entries[j].createdAt())
	})

	if offset >= len(entries) {
		return []LedgerEntry{}, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *ledgerService) Dashboard(ctx context.Context, actorID int64) (*DashboardSummary, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleJester {
		return nil, fmt.Errorf("%w: dashboard is a management view", domain.ErrForbidden)
	}
	ids, err := s.scopeIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{Account: actor}

	subIDs, err := s.accountRepo.ListSubordinateIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	summary.SubordinateCount = len(subIDs)

	pending := domain.CreditRequestPending
	reqs, err := s.creditRepo.ListBySuperior(ctx, actorID, &pending)
	if err != nil {
		return nil, err
	}
	summary.PendingCreditCount = len(reqs)

	if summary.PackageTxCount, err = s.packageRepo.CountForAccounts(ctx, ids); err != nil {
		return nil, err
	}
	if summary.GameTxCount, err = s.gameTxRepo.CountForAccounts(ctx, ids); err != nil {
		return nil, err
	}
	if summary.TotalSentCents, err = s.packageRepo.SumSent(ctx, actorID); err != nil {
		return nil, err
	}
	if summary.TotalReceivedCents, err = s.packageRepo.SumReceived(ctx, actorID); err != nil {
		return nil, err
	}
	if summary.GamesWon, summary.TotalWinningsCents, err = s.gameTxRepo.WinStats(ctx, ids); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ledgerService) JesterGameHistory(ctx context.Context, jesterID int64, limit, offset int) ([]GameHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	txs, err := s.gameTxRepo.ListByJester(ctx, jesterID, limit, offset)
	if err != nil {
		return nil, err
	}
	entries := make([]GameHistoryEntry, 0, len(txs))
	for i := range txs {
		g := &txs[i]
		entries = append(entries, GameHistoryEntry{
			Transaction:   g,
			NumberOfCards: g.CardCount(),
			Reference:     fmt.Sprintf("TXN-%d", g.ID),
		})
	}
	return entries, nil
}
