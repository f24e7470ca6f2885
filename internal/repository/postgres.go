package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atmbank/ledger/internal/db"
)

// sqlStore implements Store on top of a PostgreSQL connection pool. Unit of
// work isolation comes from database transactions: another unit of work can
// never observe this one's uncommitted balance mutations, and FOR UPDATE row
// locks serialize operations that share an account.
type sqlStore struct {
	db *db.DB
}

// NewSQLStore creates a Store backed by the given database.
func NewSQLStore(database *db.DB) Store {
	return &sqlStore{db: database}
}

func (s *sqlStore) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin unit of work: %w", err)
	}
	return &sqlUnitOfWork{
		tx:           tx,
		accounts:     NewAccountRepository(tx),
		transactions: NewTransactionRepository(tx),
	}, nil
}

func (s *sqlStore) Accounts() AccountRepository {
	return NewAccountRepository(s.db)
}

func (s *sqlStore) Transactions() TransactionRepository {
	return NewTransactionRepository(s.db)
}

// sqlUnitOfWork binds repositories to one open database transaction.
type sqlUnitOfWork struct {
	tx           *sql.Tx
	accounts     AccountRepository
	transactions TransactionRepository
}

func (u *sqlUnitOfWork) Accounts() AccountRepository {
	return u.accounts
}

func (u *sqlUnitOfWork) Transactions() TransactionRepository {
	return u.transactions
}

func (u *sqlUnitOfWork) Commit() error {
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}
	return nil
}

func (u *sqlUnitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back unit of work: %w", err)
	}
	return nil
}
