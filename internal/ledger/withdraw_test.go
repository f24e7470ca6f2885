package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/atmbank/ledger/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("checking account withdraws full balance to zero", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		accountRepo := mocks.NewMockAccountRepository(t)
		uowAccounts := mocks.NewMockAccountRepository(t)
		uowTxns := mocks.NewMockTransactionRepository(t)
		service := newTestService(t, store)

		owner := checkingAccount(7, 10000)
		fresh := *owner

		store.On("Accounts").Return(accountRepo)
		accountRepo.On("FindByAccountNumber", ctx, owner.AccountNumber).Return(owner, nil)

		uow := expectUnitOfWork(t, store, uowAccounts, uowTxns)
		uowAccounts.On("FindByIDForUpdate", ctx, owner.ID).Return(&fresh, nil)
		uowAccounts.On("UpdateBalance", ctx, owner.ID, money.FromCents(0)).Return(nil)
		uowTxns.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)
		uow.On("Commit").Return(nil)

		result, err := service.Withdraw(ctx, owner.AccountNumber, "100.00", "", Actor{UserID: 7})

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Account.Balance.Cents())
		assert.Equal(t, models.TransactionTypeWithdrawal, result.Transaction.Type)
		require.NotNil(t, result.Transaction.FromAccountID)
		assert.Equal(t, owner.ID, *result.Transaction.FromAccountID)
		assert.Nil(t, result.Transaction.ToAccountID)
		assert.Equal(t, "Withdrawal", result.Transaction.Description)
	})

	t.Run("savings withdrawal breaching minimum fails fast with context", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		accountRepo := mocks.NewMockAccountRepository(t)
		service := newTestService(t, store)

		// $30.00 balance; withdrawing $10.00 would breach the $25.00 minimum.
		owner := savingsAccount(7, 3000)
		store.On("Accounts").Return(accountRepo)
		accountRepo.On("FindByAccountNumber", ctx, owner.AccountNumber).Return(owner, nil)

		result, err := service.Withdraw(ctx, owner.AccountNumber, "10.00", "", Actor{UserID: 7})

		assert.Nil(t, result)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInsufficientFunds, svcErr.Code)

		var insufficient *models.InsufficientFundsError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, int64(3000), insufficient.Balance.Cents())
		assert.Equal(t, int64(1000), insufficient.Requested.Cents())
		assert.Equal(t, models.MinSavingsBalance, insufficient.MinimumBalance)

		// Fail-fast: no unit of work was opened.
		store.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("overdraw fails fast without a unit of work", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		accountRepo := mocks.NewMockAccountRepository(t)
		service := newTestService(t, store)

		owner := checkingAccount(7, 500)
		store.On("Accounts").Return(accountRepo)
		accountRepo.On("FindByAccountNumber", ctx, owner.AccountNumber).Return(owner, nil)

		result, err := service.Withdraw(ctx, owner.AccountNumber, "6.00", "", Actor{UserID: 7})

		assert.Nil(t, result)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInsufficientFunds, svcErr.Code)
		store.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("zero and negative amounts never mutate state", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		service := newTestService(t, store)

		for _, amount := range []string{"0", "0.00", "-10.00"} {
			result, err := service.Withdraw(ctx, "ACC11111111", amount, "", Actor{UserID: 7})

			assert.Nil(t, result)
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, ErrCodeInvalidAmount, svcErr.Code)
		}
		store.AssertNotCalled(t, "Begin", mock.Anything)
		store.AssertNotCalled(t, "Accounts")
	})

	t.Run("re-check under lock surfaces insufficient funds", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		accountRepo := mocks.NewMockAccountRepository(t)
		uowAccounts := mocks.NewMockAccountRepository(t)
		uowTxns := mocks.NewMockTransactionRepository(t)
		service := newTestService(t, store)

		owner := checkingAccount(7, 10000)
		// A concurrent withdrawal drained the account between the fail-fast
		// check and the locked re-fetch.
		drained := *owner
		drained.Balance = money.FromCents(100)

		store.On("Accounts").Return(accountRepo)
		accountRepo.On("FindByAccountNumber", ctx, owner.AccountNumber).Return(owner, nil)

		uow := expectUnitOfWork(t, store, uowAccounts, uowTxns)
		uowAccounts.On("FindByIDForUpdate", ctx, owner.ID).Return(&drained, nil)
		uow.On("Rollback").Return(nil)

		result, err := service.Withdraw(ctx, owner.AccountNumber, "50.00", "", Actor{UserID: 7})

		assert.Nil(t, result)
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, ErrCodeInsufficientFunds, svcErr.Code)
		uow.AssertCalled(t, "Rollback")
		uow.AssertNotCalled(t, "Commit")
	})
}
