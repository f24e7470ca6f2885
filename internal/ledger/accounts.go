package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
)

// maxNumberAttempts bounds account number generation retries on collision.
const maxNumberAttempts = 10

// OpenAccount provisions a new account for an owner. The opening balance is
// zero unless the actor is an admin supplying a non-negative amount. Only
// admins may open accounts for other users.
func (s *Service) OpenAccount(ctx context.Context, ownerID int64, accountType models.AccountType, openingBalance string, actor Actor) (*models.Account, error) {
	if !actor.IsAdmin && ownerID != actor.UserID {
		return nil, &ServiceError{
			Code:    ErrCodeAccessDenied,
			Message: "access denied",
		}
	}

	if _, err := models.ParseAccountType(string(accountType)); err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeValidation,
			Message: "invalid account type",
			Err:     err,
		}
	}

	balance := money.FromCents(0)
	if openingBalance != "" {
		if !actor.IsAdmin {
			return nil, &ServiceError{
				Code:    ErrCodeAccessDenied,
				Message: "only admins may set an opening balance",
			}
		}
		parsed, err := money.Parse(openingBalance)
		if err != nil {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidAmount,
				Message: "invalid opening balance",
				Err:     err,
			}
		}
		if parsed.IsNegative() {
			return nil, &ServiceError{
				Code:    ErrCodeInvalidAmount,
				Message: "opening balance cannot be negative",
			}
		}
		balance = parsed
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := generateAccountNumber()

		exists, err := s.store.Accounts().ExistsByAccountNumber(ctx, number)
		if err != nil {
			return nil, &ServiceError{
				Code:    ErrCodePersistence,
				Message: "failed to check account number",
				Err:     err,
			}
		}
		if exists {
			continue
		}

		account := &models.Account{
			OwnerID:       ownerID,
			AccountNumber: number,
			Type:          accountType,
			Balance:       balance,
		}

		err = s.store.Accounts().Create(ctx, account)
		if errors.Is(err, models.ErrDuplicateAccountNumber) {
			// Lost the race on this number; generate another.
			continue
		}
		if errors.Is(err, models.ErrValidation) {
			return nil, &ServiceError{
				Code:    ErrCodeValidation,
				Message: "invalid account",
				Err:     err,
			}
		}
		if err != nil {
			return nil, &ServiceError{
				Code:    ErrCodePersistence,
				Message: "failed to create account",
				Err:     err,
			}
		}

		s.logger.Info("account opened",
			"account_number", account.AccountNumber,
			"owner_id", ownerID,
			"type", string(accountType),
		)
		return account, nil
	}

	return nil, &ServiceError{
		Code:    ErrCodeOperationFailed,
		Message: "could not allocate a unique account number",
	}
}

// generateAccountNumber produces a candidate account number: the fixed
// prefix plus an eight digit suffix.
func generateAccountNumber() string {
	return fmt.Sprintf("%s%08d", models.AccountNumberPrefix, 10000000+rand.IntN(90000000))
}

// GetAccount returns one account. The actor must own it or be an admin.
func (s *Service) GetAccount(ctx context.Context, accountNumber string, actor Actor) (*models.Account, error) {
	account, err := s.resolveAccount(ctx, accountNumber, "account")
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns the accounts owned by ownerID. Non-admin actors may
// only list their own.
func (s *Service) ListAccounts(ctx context.Context, ownerID int64, actor Actor) ([]models.Account, error) {
	if !actor.IsAdmin && ownerID != actor.UserID {
		return nil, &ServiceError{
			Code:    ErrCodeAccessDenied,
			Message: "access denied",
		}
	}

	accounts, err := s.store.Accounts().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to list accounts",
			Err:     err,
		}
	}
	return accounts, nil
}

// SystemBalance returns the sum of every account balance. Admin only: it is
// the system-wide conservation figure.
func (s *Service) SystemBalance(ctx context.Context, actor Actor) (money.Money, error) {
	if !actor.IsAdmin {
		return 0, &ServiceError{
			Code:    ErrCodeAccessDenied,
			Message: "access denied",
		}
	}

	total, err := s.store.Accounts().SumBalances(ctx)
	if err != nil {
		return 0, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to sum balances",
			Err:     err,
		}
	}
	return total, nil
}
