package models

import (
	"fmt"
	"time"

	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
)

// TransactionType represents the type of money movement
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// ParseTransactionType converts a string into a TransactionType; unknown
// strings are a hard validation error.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeDeposit:
		return TransactionTypeDeposit, nil
	case TransactionTypeWithdrawal:
		return TransactionTypeWithdrawal, nil
	case TransactionTypeTransfer:
		return TransactionTypeTransfer, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrValidation, s)
	}
}

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// ParseTransactionStatus converts a string into a TransactionStatus; unknown
// strings are a hard validation error.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case TransactionStatusPending:
		return TransactionStatusPending, nil
	case TransactionStatusCompleted:
		return TransactionStatusCompleted, nil
	case TransactionStatusFailed:
		return TransactionStatusFailed, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", ErrValidation, s)
	}
}

// Transaction represents one completed or failed money movement. Records are
// append-only: once persisted as completed they are never mutated apart from
// a status transition in compensating flows.
type Transaction struct {
	CreatedAt     time.Time         `db:"created_at"`
	FromAccountID *uuid.UUID        `db:"from_account_id"`
	ToAccountID   *uuid.UUID        `db:"to_account_id"`
	Description   string            `db:"description"`
	Type          TransactionType   `db:"transaction_type"`
	Status        TransactionStatus `db:"status"`
	Amount        money.Money       `db:"amount_cents"`
	ID            uuid.UUID         `db:"id"`
}

// Validate enforces the structural invariant tying the transaction type to
// which account references are populated:
//
//	deposit     from absent,  to present
//	withdrawal  from present, to absent
//	transfer    from present, to present, from != to
//
// The amount must be strictly positive in every case.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	switch t.Type {
	case TransactionTypeDeposit:
		if t.FromAccountID != nil {
			return fmt.Errorf("%w: deposit cannot have a source account", ErrValidation)
		}
		if t.ToAccountID == nil {
			return fmt.Errorf("%w: deposit must have a destination account", ErrValidation)
		}
	case TransactionTypeWithdrawal:
		if t.FromAccountID == nil {
			return fmt.Errorf("%w: withdrawal must have a source account", ErrValidation)
		}
		if t.ToAccountID != nil {
			return fmt.Errorf("%w: withdrawal cannot have a destination account", ErrValidation)
		}
	case TransactionTypeTransfer:
		if t.FromAccountID == nil {
			return fmt.Errorf("%w: transfer must have a source account", ErrValidation)
		}
		if t.ToAccountID == nil {
			return fmt.Errorf("%w: transfer must have a destination account", ErrValidation)
		}
		if *t.FromAccountID == *t.ToAccountID {
			return fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, t.Type)
	}

	if _, err := ParseTransactionStatus(string(t.Status)); err != nil {
		return err
	}
	return nil
}

// References reports whether the transaction touches the given account on
// either side.
func (t *Transaction) References(accountID uuid.UUID) bool {
	if t.FromAccountID != nil && *t.FromAccountID == accountID {
		return true
	}
	return t.ToAccountID != nil && *t.ToAccountID == accountID
}
