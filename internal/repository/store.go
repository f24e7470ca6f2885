// Package repository provides the persistence boundary for the ledger core:
// account and transaction data access scoped to an atomic unit of work.
package repository

import (
	"context"
	"time"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create inserts a new account after validating it. A colliding account
	// number fails with models.ErrDuplicateAccountNumber.
	Create(ctx context.Context, account *models.Account) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)

	// FindByIDForUpdate fetches an account with its row locked for the
	// remainder of the unit of work. Callers locking two accounts must
	// acquire them in ascending ID order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// UpdateBalance persists a balance-only mutation. Owner, account number
	// and type are immutable and never change through this path.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error

	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error)

	// SumBalances returns the sum of every account balance, the system-wide
	// conservation figure.
	SumBalances(ctx context.Context) (money.Money, error)
}

// TransactionFilter narrows a transaction history query. Zero-value fields
// are ignored; Limit defaults to 100 entries.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Type      *models.TransactionType
	Since     *time.Time
	Until     *time.Time
	Limit     int
	Offset    int
}

// TransactionRepository defines the interface for the append-only
// transaction log
type TransactionRepository interface {
	// Create validates the transaction's structural invariant, assigns an ID
	// and timestamp when unset, and appends the record.
	Create(ctx context.Context, txn *models.Transaction) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)

	// UpdateStatus transitions the status of an existing record. It exists
	// for compensating flows only; completed records are otherwise immutable.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error

	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)

	// Count reports how many transactions match the filter, ignoring its
	// paging fields.
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

// UnitOfWork scopes a sequence of reads and writes that commit or roll back
// as a single atomic step. Repositories obtained from it see the unit of
// work's own uncommitted writes; other units of work never do.
type UnitOfWork interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Commit() error
	Rollback() error
}

// Store is the ledger's persistence boundary. Repositories obtained directly
// from the store run outside any unit of work and only ever observe
// committed state.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
	Accounts() AccountRepository
	Transactions() TransactionRepository
}
