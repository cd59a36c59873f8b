package service

import (
	"context"
	"testing"

	"bingohall-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func trackedAccount(id int64, role domain.Role, cents int64) *domain.Account {
	return &domain.Account{
		ID:        id,
		FirstName: "Acct",
		LastName:  "Holder",
		Role:      role,
		Balance:   domain.NewBalance(cents),
	}
}

func ownerAccount(id int64) *domain.Account {
	return &domain.Account{
		ID:        id,
		FirstName: "The",
		LastName:  "Owner",
		Role:      domain.RoleOwner,
		Balance:   domain.UnlimitedBalance(),
	}
}

func newTransferService(accounts *MockAccountRepo, packages *MockPackageTxRepo, credits *MockCreditRequestRepo) TransferService {
	return NewTransferService(txRunnerStub{}, accounts, packages, credits, nil)
}

func TestSendPackage(t *testing.T) {
	ctx := context.Background()

	t.Run("MovesExactAmountBetweenWallets", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		sender := trackedAccount(2, domain.RoleManager, 10000)
		receiver := trackedAccount(5, domain.RoleJester, 2000)
		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(sender, nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(receiver, nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(2), domain.NewBalance(7000)).Return(nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(5000)).Return(nil).Once()
		packages.On("Insert", mock.Anything, mock.MatchedBy(func(p *domain.PackageTransaction) bool {
			return p.SenderID == 2 && p.ReceiverID == 5 &&
				p.AmountCents == 3000 && p.Status == domain.PackageTxCompleted
		})).Return(nil).Once()

		outcome, err := svc.SendPackage(ctx, 2, 5, 3000)
		require.NoError(t, err)

		// What left the sender arrived at the receiver, nothing more.
		assert.Equal(t, int64(7000), outcome.SenderBalance.Cents())
		assert.Equal(t, int64(5000), outcome.ReceiverBalance.Cents())
		assert.Equal(t, int64(3000), outcome.Transaction.AmountCents)
		accounts.AssertExpectations(t)
		packages.AssertExpectations(t)
	})

	t.Run("LocksLowestIDFirst", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		sender := trackedAccount(9, domain.RoleManager, 10000)
		receiver := trackedAccount(3, domain.RoleJester, 0)

		var lockOrder []int64
		accounts.On("LockForUpdate", mock.Anything, int64(3)).Run(func(args mock.Arguments) {
			lockOrder = append(lockOrder, 3)
		}).Return(receiver, nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(9)).Run(func(args mock.Arguments) {
			lockOrder = append(lockOrder, 9)
		}).Return(sender, nil).Once()
		accounts.On("UpdateBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		packages.On("Insert", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.SendPackage(ctx, 9, 3, 1000)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 9}, lockOrder)
	})

	t.Run("InsufficientFundsLeavesWalletsUntouched", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(trackedAccount(2, domain.RoleManager, 100), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 0), nil).Once()

		_, err := svc.SendPackage(ctx, 2, 5, 3000)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		packages.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("OwnerSendsWithoutBalanceCheck", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("LockForUpdate", mock.Anything, int64(1)).Return(ownerAccount(1), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 0), nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(999999)).Return(nil).Once()
		packages.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

		outcome, err := svc.SendPackage(ctx, 1, 5, 999999)
		require.NoError(t, err)
		assert.True(t, outcome.SenderBalance.Unlimited())
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, int64(1), mock.Anything)
	})

	t.Run("RejectsBadAmounts", func(t *testing.T) {
		svc := newTransferService(new(MockAccountRepo), new(MockPackageTxRepo), new(MockCreditRequestRepo))

		_, err := svc.SendPackage(ctx, 2, 5, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = svc.SendPackage(ctx, 2, 5, -50)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = svc.SendPackage(ctx, 2, 2, 50)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestRequestCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("JesterFilesPendingRequestAgainstSuperior", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(accounts, new(MockPackageTxRepo), credits)

		superiorID := int64(2)
		jester := trackedAccount(5, domain.RoleJester, 0)
		jester.SuperiorID = &superiorID
		accounts.On("GetByID", ctx, int64(5)).Return(jester, nil).Once()
		credits.On("Create", ctx, mock.MatchedBy(func(cr *domain.CreditRequest) bool {
			return cr.RequesterID == 5 && cr.SuperiorID == 2 &&
				cr.AmountCents == 4000 && cr.Status == domain.CreditRequestPending
		})).Return(nil).Once()

		cr, err := svc.RequestCredit(ctx, 5, 4000)
		require.NoError(t, err)
		assert.Equal(t, domain.CreditRequestPending, cr.Status)
		credits.AssertExpectations(t)
	})

	t.Run("NonJesterForbidden", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		svc := newTransferService(accounts, new(MockPackageTxRepo), new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(2)).Return(trackedAccount(2, domain.RoleManager, 0), nil).Once()

		_, err := svc.RequestCredit(ctx, 2, 4000)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestResolveCreditRequest(t *testing.T) {
	ctx := context.Background()

	pendingRequest := func() *domain.CreditRequest {
		return &domain.CreditRequest{
			ID:          7,
			RequesterID: 5,
			SuperiorID:  2,
			AmountCents: 4000,
			Status:      domain.CreditRequestPending,
		}
	}

	t.Run("ApproveDebitsSuperiorAndCreditsRequester", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(accounts, packages, credits)

		credits.On("GetByID", ctx, int64(7)).Return(pendingRequest(), nil).Once()
		credits.On("GetForUpdate", mock.Anything, int64(7)).Return(pendingRequest(), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(trackedAccount(2, domain.RoleManager, 10000), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 500), nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(2), domain.NewBalance(6000)).Return(nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(4500)).Return(nil).Once()
		packages.On("Insert", mock.Anything, mock.MatchedBy(func(p *domain.PackageTransaction) bool {
			return p.SenderID == 2 && p.ReceiverID == 5 && p.AmountCents == 4000
		})).Return(nil).Once()
		credits.On("UpdateStatus", mock.Anything, int64(7), domain.CreditRequestApproved).Return(nil).Once()

		resolved, err := svc.ResolveCreditRequest(ctx, 2, 7, domain.CreditActionApprove)
		require.NoError(t, err)
		assert.Equal(t, domain.CreditRequestApproved, resolved.Status)
		accounts.AssertExpectations(t)
		credits.AssertExpectations(t)
	})

	t.Run("OwnerSuperiorApprovalSkipsDebit", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(accounts, packages, credits)

		cr := pendingRequest()
		cr.SuperiorID = 1
		crCopy := *cr
		credits.On("GetByID", ctx, int64(7)).Return(cr, nil).Once()
		credits.On("GetForUpdate", mock.Anything, int64(7)).Return(&crCopy, nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(1)).Return(ownerAccount(1), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 0), nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(4000)).Return(nil).Once()
		packages.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
		credits.On("UpdateStatus", mock.Anything, int64(7), domain.CreditRequestApproved).Return(nil).Once()

		_, err := svc.ResolveCreditRequest(ctx, 1, 7, domain.CreditActionApprove)
		require.NoError(t, err)
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, int64(1), mock.Anything)
	})

	t.Run("RejectOnlyFlipsStatus", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(accounts, new(MockPackageTxRepo), credits)

		credits.On("GetByID", ctx, int64(7)).Return(pendingRequest(), nil).Once()
		credits.On("GetForUpdate", mock.Anything, int64(7)).Return(pendingRequest(), nil).Once()
		credits.On("UpdateStatus", mock.Anything, int64(7), domain.CreditRequestRejected).Return(nil).Once()

		resolved, err := svc.ResolveCreditRequest(ctx, 2, 7, domain.CreditActionReject)
		require.NoError(t, err)
		assert.Equal(t, domain.CreditRequestRejected, resolved.Status)
		accounts.AssertNotCalled(t, "LockForUpdate", mock.Anything, mock.Anything)
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ResolvedRequestIsTerminal", func(t *testing.T) {
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(new(MockAccountRepo), new(MockPackageTxRepo), credits)

		cr := pendingRequest()
		cr.Status = domain.CreditRequestApproved
		credits.On("GetByID", ctx, int64(7)).Return(cr, nil).Once()

		_, err := svc.ResolveCreditRequest(ctx, 2, 7, domain.CreditActionApprove)
		assert.ErrorIs(t, err, domain.ErrRequestResolved)
	})

	t.Run("OnlyTheRequestsSuperiorMayResolve", func(t *testing.T) {
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(new(MockAccountRepo), new(MockPackageTxRepo), credits)

		credits.On("GetByID", ctx, int64(7)).Return(pendingRequest(), nil).Once()

		_, err := svc.ResolveCreditRequest(ctx, 99, 7, domain.CreditActionApprove)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("InsufficientSuperiorFunds", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		credits := new(MockCreditRequestRepo)
		svc := newTransferService(accounts, new(MockPackageTxRepo), credits)

		credits.On("GetByID", ctx, int64(7)).Return(pendingRequest(), nil).Once()
		credits.On("GetForUpdate", mock.Anything, int64(7)).Return(pendingRequest(), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(trackedAccount(2, domain.RoleManager, 100), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 0), nil).Once()

		_, err := svc.ResolveCreditRequest(ctx, 2, 7, domain.CreditActionApprove)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRevertPackageTransaction(t *testing.T) {
	ctx := context.Background()

	completedTx := func() *domain.PackageTransaction {
		return &domain.PackageTransaction{
			ID:          11,
			SenderID:    2,
			ReceiverID:  5,
			AmountCents: 5000,
			Status:      domain.PackageTxCompleted,
		}
	}

	t.Run("SenderRevertPullsFundsBack", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(2)).Return(trackedAccount(2, domain.RoleManager, 1000), nil).Once()
		packages.On("GetByID", ctx, int64(11)).Return(completedTx(), nil).Once()
		packages.On("GetForUpdate", mock.Anything, int64(11)).Return(completedTx(), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(trackedAccount(2, domain.RoleManager, 1000), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 6000), nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(1000)).Return(nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(2), domain.NewBalance(6000)).Return(nil).Once()
		packages.On("MarkReverted", mock.Anything, int64(11), int64(2)).Return(nil).Once()

		reverted, err := svc.RevertPackageTransaction(ctx, 2, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.PackageTxReverted, reverted.Status)
		accounts.AssertExpectations(t)
		packages.AssertExpectations(t)
	})

	t.Run("OwnerRevertRefundsOwner", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(1)).Return(ownerAccount(1), nil).Once()
		packages.On("GetByID", ctx, int64(11)).Return(completedTx(), nil).Once()
		packages.On("GetForUpdate", mock.Anything, int64(11)).Return(completedTx(), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(1)).Return(ownerAccount(1), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 6000), nil).Once()
		accounts.On("UpdateBalance", mock.Anything, int64(5), domain.NewBalance(1000)).Return(nil).Once()
		packages.On("MarkReverted", mock.Anything, int64(11), int64(1)).Return(nil).Once()

		_, err := svc.RevertPackageTransaction(ctx, 1, 11)
		require.NoError(t, err)
		// The owner's balance is untracked; the refund is absorbed.
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, int64(1), mock.Anything)
	})

	t.Run("RevertIsNotRepeatable", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(2)).Return(trackedAccount(2, domain.RoleManager, 1000), nil).Once()
		p := completedTx()
		p.Status = domain.PackageTxReverted
		packages.On("GetByID", ctx, int64(11)).Return(p, nil).Once()

		_, err := svc.RevertPackageTransaction(ctx, 2, 11)
		assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
		packages.AssertNotCalled(t, "MarkReverted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RevertBlockedWhenReceiverSpentTheFunds", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(2)).Return(trackedAccount(2, domain.RoleManager, 1000), nil).Once()
		packages.On("GetByID", ctx, int64(11)).Return(completedTx(), nil).Once()
		packages.On("GetForUpdate", mock.Anything, int64(11)).Return(completedTx(), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(2)).Return(trackedAccount(2, domain.RoleManager, 1000), nil).Once()
		accounts.On("LockForUpdate", mock.Anything, int64(5)).Return(trackedAccount(5, domain.RoleJester, 2000), nil).Once()

		_, err := svc.RevertPackageTransaction(ctx, 2, 11)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		packages.AssertNotCalled(t, "MarkReverted", mock.Anything, mock.Anything, mock.Anything)
		accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StrangerCannotRevert", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		packages := new(MockPackageTxRepo)
		svc := newTransferService(accounts, packages, new(MockCreditRequestRepo))

		accounts.On("GetByID", ctx, int64(8)).Return(trackedAccount(8, domain.RoleSuperagent, 1000), nil).Once()
		packages.On("GetByID", ctx, int64(11)).Return(completedTx(), nil).Once()

		_, err := svc.RevertPackageTransaction(ctx, 8, 11)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
