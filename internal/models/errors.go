package models

import (
	"errors"
	"fmt"

	"github.com/atmbank/ledger/internal/money"
)

// Domain errors that can be returned by repositories and models
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAccountNumber indicates an account with the same number already exists
	ErrDuplicateAccountNumber = errors.New("duplicate account number")

	// ErrValidation indicates an entity failed its structural rules
	ErrValidation = errors.New("validation failed")
)

// InsufficientFundsError is returned when a withdrawal-class operation would
// overdraw an account or breach a savings minimum. It carries the context a
// client needs to explain the failure without a second lookup.
type InsufficientFundsError struct {
	Balance        money.Money
	Requested      money.Money
	MinimumBalance money.Money
	SavingsAccount bool
}

func (e *InsufficientFundsError) Error() string {
	if e.SavingsAccount {
		return fmt.Sprintf("insufficient funds: balance %s, requested %s, minimum balance %s",
			e.Balance, e.Requested, e.MinimumBalance)
	}
	return fmt.Sprintf("insufficient funds: balance %s, requested %s", e.Balance, e.Requested)
}
