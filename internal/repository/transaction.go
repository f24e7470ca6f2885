package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atmbank/ledger/internal/db"
	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
)

const transactionColumns = `id, from_account_id, to_account_id, amount_cents, transaction_type, description, status, created_at`

const defaultListLimit = 100

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	q db.Querier
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(q db.Querier) TransactionRepository {
	return &transactionRepository{q: q}
}

// Create appends one transaction record. The structural invariant is checked
// before the store is touched; the schema CHECK is the second line of defense.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount_cents, transaction_type, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		txn.ID,
		txn.FromAccountID,
		txn.ToAccountID,
		txn.Amount.Cents(),
		string(txn.Type),
		txn.Description,
		string(txn.Status),
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by its UUID
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	txn, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateStatus transitions a transaction's status (compensating flows only).
func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	if _, err := models.ParseTransactionStatus(string(status)); err != nil {
		return err
	}

	query := `UPDATE transactions SET status = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transaction: %w", models.ErrNotFound)
	}

	return nil
}

// List retrieves transactions matching the filter, newest first. The WHERE
// clause is assembled from placeholders only; filter values never reach the
// SQL text.
func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions`)
	sb.WriteString(filterWhereClause(filter, &args))

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	sb.WriteString(" LIMIT " + arg(limit))
	sb.WriteString(" OFFSET " + arg(offset))

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// Count returns the number of transactions matching the filter. Paging
// fields are ignored so the count stays stable across pages of the same
// query.
func (r *transactionRepository) Count(ctx context.Context, filter TransactionFilter) (int64, error) {
	var args []any
	query := `SELECT COUNT(*) FROM transactions` + filterWhereClause(filter, &args)

	var count int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// filterWhereClause renders the filter's conditions as a WHERE clause built
// from placeholders only, appending the bound values to args. It returns the
// empty string when the filter matches everything.
func filterWhereClause(filter TransactionFilter, args *[]any) string {
	var conds []string
	arg := func(v any) string {
		*args = append(*args, v)
		return "$" + strconv.Itoa(len(*args))
	}

	if filter.AccountID != nil {
		p := arg(*filter.AccountID)
		conds = append(conds, "(from_account_id = "+p+" OR to_account_id = "+p+")")
	}
	if filter.Type != nil {
		conds = append(conds, "transaction_type = "+arg(string(*filter.Type)))
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= "+arg(*filter.Since))
	}
	if filter.Until != nil {
		conds = append(conds, "created_at <= "+arg(*filter.Until))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// scanTransaction maps one row onto a Transaction using the given Scan
// function, shared between single-row and multi-row queries.
func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var (
		txn         models.Transaction
		fromID      uuid.NullUUID
		toID        uuid.NullUUID
		amountCents int64
		txnType     string
		status      string
	)

	err := scan(
		&txn.ID,
		&fromID,
		&toID,
		&amountCents,
		&txnType,
		&txn.Description,
		&status,
		&txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if fromID.Valid {
		id := fromID.UUID
		txn.FromAccountID = &id
	}
	if toID.Valid {
		id := toID.UUID
		txn.ToAccountID = &id
	}
	txn.Amount = money.FromCents(amountCents)

	parsedType, err := models.ParseTransactionType(txnType)
	if err != nil {
		return nil, err
	}
	txn.Type = parsedType

	parsedStatus, err := models.ParseTransactionStatus(status)
	if err != nil {
		return nil, err
	}
	txn.Status = parsedStatus

	return &txn, nil
}
