package ledger

import (
	"io"
	"log/slog"
	"testing"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/atmbank/ledger/internal/repository"
	"github.com/atmbank/ledger/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, store repository.Store) *Service {
	t.Helper()
	return NewService(store, testLogger())
}

func checkingAccount(ownerID int64, balanceCents int64) *models.Account {
	return &models.Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: "ACC11111111",
		Type:          models.AccountTypeChecking,
		Balance:       money.FromCents(balanceCents),
	}
}

func savingsAccount(ownerID int64, balanceCents int64) *models.Account {
	return &models.Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: "ACC22222222",
		Type:          models.AccountTypeSavings,
		Balance:       money.FromCents(balanceCents),
	}
}

// mockUnitOfWork wires a mock store so Begin hands out a unit of work backed
// by the given repositories.
func expectUnitOfWork(t *testing.T, store *mocks.MockStore, accounts *mocks.MockAccountRepository, txns *mocks.MockTransactionRepository) *mocks.MockUnitOfWork {
	t.Helper()
	uow := mocks.NewMockUnitOfWork(t)
	store.On("Begin", mock.Anything).Return(uow, nil)
	uow.On("Accounts").Return(accounts).Maybe()
	uow.On("Transactions").Return(txns).Maybe()
	return uow
}
