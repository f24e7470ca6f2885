package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/atmbank/ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(number string, balanceCents int64) *models.Account {
	return &models.Account{
		OwnerID:       7,
		AccountNumber: number,
		Type:          models.AccountTypeChecking,
		Balance:       money.FromCents(balanceCents),
	}
}

func createAccount(t *testing.T, store *Store, number string, balanceCents int64) *models.Account {
	t.Helper()
	account := newAccount(number, balanceCents)
	require.NoError(t, store.Accounts().Create(context.Background(), account))
	return account
}

func TestStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := New()

	account := createAccount(t, store, "ACC11111111", 5000)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	byID, err := store.Accounts().FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), byID.Balance.Cents())

	byNumber, err := store.Accounts().FindByAccountNumber(ctx, "ACC11111111")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byNumber.ID)

	exists, err := store.Accounts().ExistsByAccountNumber(ctx, "ACC11111111")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Accounts().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_DuplicateAccountNumber(t *testing.T) {
	ctx := context.Background()
	store := New()

	createAccount(t, store, "ACC11111111", 0)

	err := store.Accounts().Create(ctx, newAccount("ACC11111111", 0))
	assert.ErrorIs(t, err, models.ErrDuplicateAccountNumber)
}

func TestStore_CreateValidates(t *testing.T) {
	ctx := context.Background()
	store := New()

	bad := newAccount("WRONG", 0)
	err := store.Accounts().Create(ctx, bad)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUnitOfWork_CommitPublishesStagedWrites(t *testing.T) {
	ctx := context.Background()
	store := New()
	account := createAccount(t, store, "ACC11111111", 10000)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)

	locked, err := uow.Accounts().FindByIDForUpdate(ctx, account.ID)
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().UpdateBalance(ctx, account.ID, locked.Balance.Sub(money.FromCents(2500))))

	// Uncommitted writes are invisible outside the unit of work.
	outside, err := store.Accounts().FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), outside.Balance.Cents())

	// But visible inside it.
	inside, err := uow.Accounts().FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), inside.Balance.Cents())

	require.NoError(t, uow.Commit())

	after, err := store.Accounts().FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), after.Balance.Cents())
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	store := New()
	account := createAccount(t, store, "ACC11111111", 10000)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)

	_, err = uow.Accounts().FindByIDForUpdate(ctx, account.ID)
	require.NoError(t, err)
	require.NoError(t, uow.Accounts().UpdateBalance(ctx, account.ID, money.FromCents(0)))
	require.NoError(t, uow.Transactions().Create(ctx, &models.Transaction{
		Type:          models.TransactionTypeWithdrawal,
		Status:        models.TransactionStatusCompleted,
		Amount:        money.FromCents(10000),
		FromAccountID: &account.ID,
	}))

	require.NoError(t, uow.Rollback())

	after, err := store.Accounts().FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), after.Balance.Cents())

	txns, err := store.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestUnitOfWork_CommitTwiceFails(t *testing.T) {
	ctx := context.Background()
	store := New()

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}

func TestForUpdate_SerializesUnitsOfWork(t *testing.T) {
	ctx := context.Background()
	store := New()
	account := createAccount(t, store, "ACC11111111", 10000)

	first, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = first.Accounts().FindByIDForUpdate(ctx, account.ID)
	require.NoError(t, err)

	// A second unit of work blocks on the same account until the first one
	// finishes.
	acquired := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err := store.Begin(ctx)
		if err != nil {
			return
		}
		if _, err := second.Accounts().FindByIDForUpdate(ctx, account.ID); err != nil {
			return
		}
		close(acquired)
		_ = second.Rollback()
	}()

	select {
	case <-acquired:
		t.Fatal("second unit of work acquired the lock while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Rollback())

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second unit of work never acquired the lock after release")
	}
	wg.Wait()
}

func TestForUpdate_ReentrantWithinUnitOfWork(t *testing.T) {
	ctx := context.Background()
	store := New()
	account := createAccount(t, store, "ACC11111111", 10000)

	uow, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = uow.Rollback() }()

	_, err = uow.Accounts().FindByIDForUpdate(ctx, account.ID)
	require.NoError(t, err)
	again, err := uow.Accounts().FindByIDForUpdate(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestTransactions_ListAndCount(t *testing.T) {
	ctx := context.Background()
	store := New()
	a := createAccount(t, store, "ACC11111111", 10000)
	b := createAccount(t, store, "ACC22222222", 10000)

	deposit := &models.Transaction{Type: models.TransactionTypeDeposit, Status: models.TransactionStatusCompleted, Amount: money.FromCents(100), ToAccountID: &a.ID}
	transfer := &models.Transaction{Type: models.TransactionTypeTransfer, Status: models.TransactionStatusCompleted, Amount: money.FromCents(200), FromAccountID: &a.ID, ToAccountID: &b.ID}
	withdrawal := &models.Transaction{Type: models.TransactionTypeWithdrawal, Status: models.TransactionStatusCompleted, Amount: money.FromCents(300), FromAccountID: &b.ID}
	for _, txn := range []*models.Transaction{deposit, transfer, withdrawal} {
		require.NoError(t, store.Transactions().Create(ctx, txn))
	}

	all, err := store.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, withdrawal.ID, all[0].ID, "newest first")

	forA, err := store.Transactions().List(ctx, repository.TransactionFilter{AccountID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, forA, 2)

	countA, err := store.Transactions().Count(ctx, repository.TransactionFilter{AccountID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), countA)

	total, err := store.Transactions().Count(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	withdrawalType := models.TransactionTypeWithdrawal
	byType, err := store.Transactions().List(ctx, repository.TransactionFilter{Type: &withdrawalType})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, int64(300), byType[0].Amount.Cents())

	typeCount, err := store.Transactions().Count(ctx, repository.TransactionFilter{Type: &withdrawalType})
	require.NoError(t, err)
	assert.Equal(t, int64(1), typeCount)

	negOffset, err := store.Transactions().List(ctx, repository.TransactionFilter{Offset: -5})
	require.NoError(t, err)
	assert.Len(t, negOffset, 3, "negative offset reads from the start")
}

func TestTransactions_CreateValidatesShape(t *testing.T) {
	ctx := context.Background()
	store := New()
	a := createAccount(t, store, "ACC11111111", 10000)

	// A deposit must not carry a source account.
	err := store.Transactions().Create(ctx, &models.Transaction{
		Type:          models.TransactionTypeDeposit,
		Status:        models.TransactionStatusCompleted,
		Amount:        money.FromCents(100),
		FromAccountID: &a.ID,
		ToAccountID:   &a.ID,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSumBalances(t *testing.T) {
	ctx := context.Background()
	store := New()
	createAccount(t, store, "ACC11111111", 2500)
	createAccount(t, store, "ACC22222222", 7500)

	total, err := store.Accounts().SumBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), total.Cents())
}
