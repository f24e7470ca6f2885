package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atmbank/ledger/internal/db"
	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const accountColumns = `id, owner_id, account_number, account_type, balance_cents, created_at, updated_at`

// accountRepository implements AccountRepository over a db.Querier, so the
// same code serves both pooled connections and open transactions.
type accountRepository struct {
	q db.Querier
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(q db.Querier) AccountRepository {
	return &accountRepository{q: q}
}

// Create inserts a new account row. Account number collisions surface as
// models.ErrDuplicateAccountNumber so callers can regenerate and retry.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt

	query := `
		INSERT INTO accounts (id, owner_id, account_number, account_type, balance_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.OwnerID,
		account.AccountNumber,
		string(account.Type),
		account.Balance.Cents(),
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("account number %s: %w", account.AccountNumber, models.ErrDuplicateAccountNumber)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its UUID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

// FindByAccountNumber retrieves an account by its account number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, accountNumber))
}

// FindByIDForUpdate retrieves an account and locks its row until the
// enclosing unit of work commits or rolls back.
func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		account      models.Account
		accountType  string
		balanceCents int64
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.AccountNumber,
		&accountType,
		&balanceCents,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	parsedType, err := models.ParseAccountType(accountType)
	if err != nil {
		return nil, err
	}
	account.Type = parsedType
	account.Balance = money.FromCents(balanceCents)

	return &account, nil
}

// UpdateBalance replaces the stored balance of an existing account. Nothing
// else about the row may change through this path.
func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Money) error {
	query := `
		UPDATE accounts
		SET balance_cents = $2,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, id, balance.Cents())
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account: %w", models.ErrNotFound)
	}

	return nil
}

// ExistsByAccountNumber reports whether an account number is already taken.
func (r *accountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return exists, nil
}

// ListByOwner retrieves all accounts belonging to an owner, oldest first.
func (r *accountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by owner: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			account      models.Account
			accountType  string
			balanceCents int64
		)
		err := rows.Scan(
			&account.ID,
			&account.OwnerID,
			&account.AccountNumber,
			&accountType,
			&balanceCents,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		parsedType, err := models.ParseAccountType(accountType)
		if err != nil {
			return nil, err
		}
		account.Type = parsedType
		account.Balance = money.FromCents(balanceCents)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// SumBalances returns the total of all account balances.
func (r *accountRepository) SumBalances(ctx context.Context) (money.Money, error) {
	query := `SELECT COALESCE(SUM(balance_cents), 0) FROM accounts`

	var totalCents int64
	if err := r.q.QueryRowContext(ctx, query).Scan(&totalCents); err != nil {
		return 0, fmt.Errorf("failed to sum account balances: %w", err)
	}
	return money.FromCents(totalCents), nil
}
