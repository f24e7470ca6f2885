package repository

import (
	"context"
	"testing"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)
	seeded := seedAccount(t, repo, 7, models.AccountTypeChecking, 5000)

	t.Run("find by id", func(t *testing.T) {
		account, err := repo.FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.AccountNumber, account.AccountNumber)
		assert.Equal(t, int64(5000), account.Balance.Cents())
		assert.Equal(t, models.AccountTypeChecking, account.Type)
	})

	t.Run("find by account number", func(t *testing.T) {
		account, err := repo.FindByAccountNumber(context.Background(), seeded.AccountNumber)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, account.ID)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = repo.FindByAccountNumber(context.Background(), "ACC00000000")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("exists by account number", func(t *testing.T) {
		exists, err := repo.ExistsByAccountNumber(context.Background(), seeded.AccountNumber)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByAccountNumber(context.Background(), "ACC00000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestAccountRepository_DuplicateNumber(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)
	seeded := seedAccount(t, repo, 7, models.AccountTypeChecking, 0)

	dup := &models.Account{
		OwnerID:       8,
		AccountNumber: seeded.AccountNumber,
		Type:          models.AccountTypeSavings,
		Balance:       money.FromCents(0),
	}
	err := repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, models.ErrDuplicateAccountNumber)
}

func TestAccountRepository_CreateRejectsInvalid(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)

	err := repo.Create(context.Background(), &models.Account{
		OwnerID:       0,
		AccountNumber: "ACC12345678",
		Type:          models.AccountTypeChecking,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)
	seeded := seedAccount(t, repo, 7, models.AccountTypeChecking, 10000)

	err := repo.UpdateBalance(context.Background(), seeded.ID, money.FromCents(7500))
	require.NoError(t, err)

	account, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), account.Balance.Cents())

	err = repo.UpdateBalance(context.Background(), uuid.New(), money.FromCents(100))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAccountRepository_ListByOwner(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)
	seedAccount(t, repo, 7, models.AccountTypeChecking, 100)
	seedAccount(t, repo, 7, models.AccountTypeSavings, 200)
	seedAccount(t, repo, 8, models.AccountTypeChecking, 300)

	accounts, err := repo.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	accounts, err = repo.ListByOwner(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAccountRepository_SumBalances(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	repo := NewAccountRepository(database)

	total, err := repo.SumBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total.Cents(), "empty ledger sums to zero")

	seedAccount(t, repo, 7, models.AccountTypeChecking, 2500)
	seedAccount(t, repo, 8, models.AccountTypeSavings, 7500)

	total, err = repo.SumBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), total.Cents())
}

func TestSQLStore_UnitOfWorkAtomicity(t *testing.T) {
	database := setupTestDB(t)
	truncateTables(t, database)

	store := NewSQLStore(database)
	seeded := seedAccount(t, store.Accounts(), 7, models.AccountTypeChecking, 10000)

	t.Run("rollback discards the balance write", func(t *testing.T) {
		uow, err := store.Begin(context.Background())
		require.NoError(t, err)

		locked, err := uow.Accounts().FindByIDForUpdate(context.Background(), seeded.ID)
		require.NoError(t, err)
		require.NoError(t, uow.Accounts().UpdateBalance(context.Background(), locked.ID, money.FromCents(0)))
		require.NoError(t, uow.Rollback())

		account, err := store.Accounts().FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), account.Balance.Cents())
	})

	t.Run("commit publishes the balance write", func(t *testing.T) {
		uow, err := store.Begin(context.Background())
		require.NoError(t, err)

		locked, err := uow.Accounts().FindByIDForUpdate(context.Background(), seeded.ID)
		require.NoError(t, err)
		require.NoError(t, uow.Accounts().UpdateBalance(context.Background(), locked.ID, money.FromCents(4000)))
		require.NoError(t, uow.Commit())

		account, err := store.Accounts().FindByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), account.Balance.Cents())
	})
}
