package service

import (
	"context"
	"database/sql"
	"fmt"

	"bingohall-backend/internal/domain"
	"bingohall-backend/internal/logger"
	"bingohall-backend/internal/repository"
)

type transferService struct {
	tx          repository.TxRunner
	accountRepo repository.AccountRepository
	packageRepo repository.PackageTransactionRepository
	creditRepo  repository.CreditRequestRepository
	email       EmailService
}

func NewTransferService(
	tx repository.TxRunner,
	accountRepo repository.AccountRepository,
	packageRepo repository.PackageTransactionRepository,
	creditRepo repository.CreditRequestRepository,
	email EmailService,
) TransferService {
	return &transferService{
		tx:          tx,
		accountRepo: accountRepo,
		packageRepo: packageRepo,
		creditRepo:  creditRepo,
		email:       email,
	}
}

// lockPair takes FOR UPDATE locks on two accounts in ascending id order so
// that concurrent transfers touching the same pair can never deadlock.
func lockPair(accountRepo repository.AccountRepository, tx *sql.Tx, firstID, secondID int64) (*domain.Account, *domain.Account, error) {
	if firstID == secondID {
		a, err := accountRepo.LockForUpdate(tx, firstID)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	}
	lo, hi := firstID, secondID
	if lo > hi {
		lo, hi = hi, lo
	}
	loAcc, err := accountRepo.LockForUpdate(tx, lo)
	if err != nil {
		return nil, nil, err
	}
	hiAcc, err := accountRepo.LockForUpdate(tx, hi)
	if err != nil {
		return nil, nil, err
	}
	if loAcc.ID == firstID {
		return loAcc, hiAcc, nil
	}
	return hiAcc, loAcc, nil
}

func (s *transferService) SendPackage(ctx context.Context, senderID, receiverID, amountCents int64) (*TransferOutcome, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidRequest)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot send a package to yourself", domain.ErrInvalidRequest)
	}

	var outcome TransferOutcome
	err := s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		sender, receiver, err := lockPair(s.accountRepo, tx, senderID, receiverID)
		if err != nil {
			return err
		}

		if !sender.Balance.Covers(amountCents) {
			return domain.ErrInsufficientFunds
		}

		senderBal, err := sender.Balance.Add(-amountCents)
		if err != nil {
			return err
		}
		receiverBal, err := receiver.Balance.Add(amountCents)
		if err != nil {
			return err
		}

		if !senderBal.Unlimited() {
			if err := s.accountRepo.UpdateBalance(tx, sender.ID, senderBal); err != nil {
				return err
			}
		}
		if !receiverBal.Unlimited() {
			if err := s.accountRepo.UpdateBalance(tx, receiver.ID, receiverBal); err != nil {
				return err
			}
		}

		p := &domain.PackageTransaction{
			SenderID:     sender.ID,
			SenderName:   sender.Name(),
			ReceiverID:   receiver.ID,
			ReceiverName: receiver.Name(),
			AmountCents:  amountCents,
			Status:       domain.PackageTxCompleted,
		}
		if err := s.packageRepo.Insert(tx, p); err != nil {
			return err
		}

		outcome = TransferOutcome{
			Transaction:     p,
			SenderBalance:   senderBal,
			ReceiverBalance: receiverBal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("package sent",
		"transaction_id", outcome.Transaction.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
		"amount_cents", amountCents)
	return &outcome, nil
}

func (s *transferService) RequestCredit(ctx context.Context, requesterID, amountCents int64) (*domain.CreditRequest, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidRequest)
	}

	requester, err := s.accountRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleJester {
		return nil, fmt.Errorf("%w: only jesters can request credit", domain.ErrForbidden)
	}
	if requester.SuperiorID == nil {
		return nil, fmt.Errorf("%w: account has no superior", domain.ErrInvalidRequest)
	}

	cr := &domain.CreditRequest{
		RequesterID: requester.ID,
		SuperiorID:  *requester.SuperiorID,
		AmountCents: amountCents,
		Status:      domain.CreditRequestPending,
	}
	if err := s.creditRepo.Create(ctx, cr); err != nil {
		return nil, err
	}

	s.notifyCreditRequested(ctx, cr, requester)
	return cr, nil
}

func (s *transferService) ResolveCreditRequest(ctx context.Context, actorID, requestID int64, action domain.CreditAction) (*domain.CreditRequest, error) {
	if action != domain.CreditActionApprove && action != domain.CreditActionReject {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidRequest, action)
	}

	// Permission is settled before the atomic unit starts. The status is
	// rechecked under lock because a concurrent resolve can win the race.
	cr, err := s.creditRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if cr.SuperiorID != actorID {
		return nil, fmt.Errorf("%w: request belongs to another superior", domain.ErrForbidden)
	}
	if cr.Status != domain.CreditRequestPending {
		return nil, domain.ErrRequestResolved
	}

	var resolved *domain.CreditRequest
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		cr, err := s.creditRepo.GetForUpdate(tx, requestID)
		if err != nil {
			return err
		}
		if cr.Status != domain.CreditRequestPending {
			return domain.ErrRequestResolved
		}

		if action == domain.CreditActionReject {
			if err := s.creditRepo.UpdateStatus(tx, cr.ID, domain.CreditRequestRejected); err != nil {
				return err
			}
			cr.Status = domain.CreditRequestRejected
			resolved = cr
			return nil
		}

		superior, requester, err := lockPair(s.accountRepo, tx, cr.SuperiorID, cr.RequesterID)
		if err != nil {
			return err
		}
		if !superior.Balance.Covers(cr.AmountCents) {
			return domain.ErrInsufficientFunds
		}

		superiorBal, err := superior.Balance.Add(-cr.AmountCents)
		if err != nil {
			return err
		}
		requesterBal, err := requester.Balance.Add(cr.AmountCents)
		if err != nil {
			return err
		}
		if !superiorBal.Unlimited() {
			if err := s.accountRepo.UpdateBalance(tx, superior.ID, superiorBal); err != nil {
				return err
			}
		}
		if err := s.accountRepo.UpdateBalance(tx, requester.ID, requesterBal); err != nil {
			return err
		}

		p := &domain.PackageTransaction{
			SenderID:     superior.ID,
			SenderName:   superior.Name(),
			ReceiverID:   requester.ID,
			ReceiverName: requester.Name(),
			AmountCents:  cr.AmountCents,
			Status:       domain.PackageTxCompleted,
		}
		if err := s.packageRepo.Insert(tx, p); err != nil {
			return err
		}
		if err := s.creditRepo.UpdateStatus(tx, cr.ID, domain.CreditRequestApproved); err != nil {
			return err
		}
		cr.Status = domain.CreditRequestApproved
		resolved = cr
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("credit request resolved",
		"request_id", resolved.ID,
		"superior_id", actorID,
		"status", resolved.Status)
	s.notifyCreditResolved(ctx, resolved)
	return resolved, nil
}

func (s *transferService) RevertPackageTransaction(ctx context.Context, actorID, transactionID int64) (*domain.PackageTransaction, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	p, err := s.packageRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.SenderID != actorID && actor.Role != domain.RoleOwner {
		return nil, fmt.Errorf("%w: only the sender or the owner can revert", domain.ErrForbidden)
	}
	if p.Status == domain.PackageTxReverted {
		return nil, domain.ErrAlreadyReverted
	}

	// The refund normally flows back to the original sender. When the owner
	// pulls back somebody else's transfer the funds land in the owner's own
	// wallet instead, so the subordinate chain cannot mint money through a
	// revert it never funded.
	refundToID := p.SenderID
	if actorID != p.SenderID {
		refundToID = actorID
	}

	var reverted *domain.PackageTransaction
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		p, err := s.packageRepo.GetForUpdate(tx, transactionID)
		if err != nil {
			return err
		}
		if p.Status == domain.PackageTxReverted {
			return domain.ErrAlreadyReverted
		}

		receiver, refundTo, err := lockPair(s.accountRepo, tx, p.ReceiverID, refundToID)
		if err != nil {
			return err
		}
		if !receiver.Balance.Covers(p.AmountCents) {
			return fmt.Errorf("%w: receiver has already spent the funds", domain.ErrInsufficientFunds)
		}

		receiverBal, err := receiver.Balance.Add(-p.AmountCents)
		if err != nil {
			return err
		}
		if !receiverBal.Unlimited() {
			if err := s.accountRepo.UpdateBalance(tx, receiver.ID, receiverBal); err != nil {
				return err
			}
		}
		if refundTo.ID != receiver.ID {
			refundBal, err := refundTo.Balance.Add(p.AmountCents)
			if err != nil {
				return err
			}
			if !refundBal.Unlimited() {
				if err := s.accountRepo.UpdateBalance(tx, refundTo.ID, refundBal); err != nil {
					return err
				}
			}
		}

		if err := s.packageRepo.MarkReverted(tx, p.ID, refundTo.ID); err != nil {
			return err
		}
		p.Status = domain.PackageTxReverted
		reverted = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("package transaction reverted",
		"transaction_id", reverted.ID,
		"actor_id", actorID,
		"amount_cents", reverted.AmountCents)
	return reverted, nil
}

func (s *transferService) ListCreditRequests(ctx context.Context, actorID int64, status *domain.CreditRequestStatus) ([]domain.CreditRequest, error) {
	actor, err := s.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleJester {
		return nil, fmt.Errorf("%w: jesters have no subordinates", domain.ErrForbidden)
	}
	return s.creditRepo.ListBySuperior(ctx, actorID, status)
}

// Email notifications are best effort. A failed send never unwinds a
// committed ledger change.
func (s *transferService) notifyCreditRequested(ctx context.Context, cr *domain.CreditRequest, requester *domain.Account) {
	if s.email == nil {
		return
	}
	superior, err := s.accountRepo.GetByID(ctx, cr.SuperiorID)
	if err != nil || superior.Email == "" {
		return
	}
	if err := s.email.SendCreditRequested(superior.Email, superior.Name(), requester.Name(), cr.AmountCents); err != nil {
		logger.Warn("credit request notification failed", "request_id", cr.ID, "error", err)
	}
}

func (s *transferService) notifyCreditResolved(ctx context.Context, cr *domain.CreditRequest) {
	if s.email == nil {
		return
	}
	requester, err := s.accountRepo.GetByID(ctx, cr.RequesterID)
	if err != nil || requester.Email == "" {
		return
	}
	if err := s.email.SendCreditResolved(requester.Email, requester.Name(), cr.AmountCents, cr.Status); err != nil {
		logger.Warn("credit resolution notification failed", "request_id", cr.ID, "error", err)
	}
}
