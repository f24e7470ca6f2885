package models

import (
	"fmt"
	"time"

	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
)

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// ParseAccountType converts a stored or user-supplied string into an
// AccountType. Unknown strings are a validation error, never silently mapped
// to a default type.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeChecking:
		return AccountTypeChecking, nil
	case AccountTypeSavings:
		return AccountTypeSavings, nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrValidation, s)
	}
}

const (
	// MinSavingsBalance is the balance a savings account must retain after
	// any withdrawal-class operation.
	MinSavingsBalance = money.Money(2500)

	// AccountNumberPrefix and AccountNumberLength fix the account number
	// format: "ACC" followed by eight digits.
	AccountNumberPrefix = "ACC"
	AccountNumberLength = 11
)

// Account represents a single customer account and its balance
type Account struct {
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
	AccountNumber string      `db:"account_number"`
	Type          AccountType `db:"account_type"`
	Balance       money.Money `db:"balance_cents"`
	OwnerID       int64       `db:"owner_id"`
	ID            uuid.UUID   `db:"id"`
}

// MinimumBalance returns the floor the balance may not drop below on
// withdrawal-class operations.
func (a *Account) MinimumBalance() money.Money {
	if a.Type == AccountTypeSavings {
		return MinSavingsBalance
	}
	return 0
}

// CanWithdraw reports whether amount can leave the account without breaching
// the type-specific minimum balance.
func (a *Account) CanWithdraw(amount money.Money) bool {
	if !amount.IsPositive() {
		return false
	}
	return a.Balance.Sub(amount).Cmp(a.MinimumBalance()) >= 0
}

// ApplyDeposit increases the balance. The amount must be strictly positive.
func (a *Account) ApplyDeposit(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", money.ErrInvalidAmount)
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// ApplyWithdraw decreases the balance, enforcing CanWithdraw. On failure it
// returns an *InsufficientFundsError carrying the context a caller needs to
// explain the rejection without a second lookup.
func (a *Account) ApplyWithdraw(amount money.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", money.ErrInvalidAmount)
	}
	if !a.CanWithdraw(amount) {
		return &InsufficientFundsError{
			Balance:        a.Balance,
			Requested:      amount,
			MinimumBalance: a.MinimumBalance(),
			SavingsAccount: a.Type == AccountTypeSavings,
		}
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Validate checks the account's structural rules: positive owner, well-formed
// account number, known type, non-negative balance.
func (a *Account) Validate() error {
	if a.OwnerID <= 0 {
		return fmt.Errorf("%w: owner id must be positive", ErrValidation)
	}
	if a.AccountNumber == "" {
		return fmt.Errorf("%w: account number cannot be empty", ErrValidation)
	}
	if len(a.AccountNumber) != AccountNumberLength {
		return fmt.Errorf("%w: account number must be %d characters long", ErrValidation, AccountNumberLength)
	}
	if a.AccountNumber[:len(AccountNumberPrefix)] != AccountNumberPrefix {
		return fmt.Errorf("%w: account number must start with %q", ErrValidation, AccountNumberPrefix)
	}
	for _, r := range a.AccountNumber[len(AccountNumberPrefix):] {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: account number suffix must be numeric", ErrValidation)
		}
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative", ErrValidation)
	}
	return nil
}
