// Package ledger implements the transfer engine: the invariant-preserving
// deposit, withdraw and transfer operations over the persistence boundary,
// plus account provisioning and history lookups. Every balance mutation and
// its audit record commit together inside one unit of work.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/atmbank/ledger/internal/repository"
)

// Actor is the authenticated identity an operation runs as. It is supplied
// by the caller on every call; the engine holds no session state of its own.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// CanAccess reports whether the actor may operate on the given account.
func (a Actor) CanAccess(account *models.Account) bool {
	return a.IsAdmin || account.OwnerID == a.UserID
}

// Service is the transfer engine. It is safe for concurrent use; operations
// touching the same account are serialized by the store's locking discipline.
type Service struct {
	store  repository.Store
	logger *slog.Logger
}

// NewService creates a transfer engine on top of a ledger store.
func NewService(store repository.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// OperationResult carries the authoritative post-commit state of a deposit
// or withdrawal.
type OperationResult struct {
	Account     *models.Account
	Transaction *models.Transaction
}

// TransferResult carries the authoritative post-commit state of a transfer.
type TransferResult struct {
	From        *models.Account
	To          *models.Account
	Transaction *models.Transaction
}

// parseAmount converts a caller-supplied decimal string into a positive
// Money value.
func parseAmount(amount string) (money.Money, error) {
	amt, err := money.Parse(amount)
	if err != nil {
		return 0, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "invalid amount",
			Err:     err,
		}
	}
	if !amt.IsPositive() {
		return 0, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "amount must be greater than 0",
		}
	}
	return amt, nil
}

// resolveAccount fetches an account by number outside any unit of work.
func (s *Service) resolveAccount(ctx context.Context, accountNumber, role string) (*models.Account, error) {
	account, err := s.store.Accounts().FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: fmt.Sprintf("%s not found", role),
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: fmt.Sprintf("failed to look up %s", role),
			Err:     err,
		}
	}
	return account, nil
}

// authorize rejects actors that neither own the account nor hold the admin
// flag.
func authorize(actor Actor, account *models.Account) error {
	if !actor.CanAccess(account) {
		return &ServiceError{
			Code:    ErrCodeAccessDenied,
			Message: "access denied",
		}
	}
	return nil
}

// insufficientFunds wraps the structured context of a failed withdrawal
// check in a coded service error.
func insufficientFunds(account *models.Account, requested money.Money) error {
	return &ServiceError{
		Code:    ErrCodeInsufficientFunds,
		Message: "insufficient funds",
		Err: &models.InsufficientFundsError{
			Balance:        account.Balance,
			Requested:      requested,
			MinimumBalance: account.MinimumBalance(),
			SavingsAccount: account.Type == models.AccountTypeSavings,
		},
	}
}
