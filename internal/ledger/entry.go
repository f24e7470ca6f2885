package ledger

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/google/uuid"
)

// balanceDelta is one account's share of a ledger entry: a positive amount
// credits the account, a negative amount debits it.
type balanceDelta struct {
	accountID uuid.UUID
	amount    money.Money
}

// entry is the single atomic primitive all three operations reduce to: a set
// of balance deltas plus one audit row, committed as one unit of work.
type entry struct {
	deltas []balanceDelta
	txn    models.Transaction
}

// applyEntry executes an entry atomically. Inside the unit of work every
// touched account is re-fetched with its row locked, mutated, and saved;
// the audit row is appended; then everything commits. Accounts are locked in
// ascending ID order regardless of transfer direction, so two entries over
// the same pair of accounts can never deadlock. Any failure after the unit
// of work opens rolls the whole entry back.
//
// It returns the persisted transaction and the authoritative post-commit
// account states keyed by ID.
func (s *Service) applyEntry(ctx context.Context, e entry) (*models.Transaction, map[uuid.UUID]*models.Account, error) {
	sort.Slice(e.deltas, func(i, j int) bool {
		return bytes.Compare(e.deltas[i].accountID[:], e.deltas[j].accountID[:]) < 0
	})

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to begin unit of work",
			Err:     err,
		}
	}

	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback() //nolint:errcheck // rollback error is not critical in defer
		}
	}()

	accounts := make(map[uuid.UUID]*models.Account, len(e.deltas))
	for _, delta := range e.deltas {
		account, err := uow.Accounts().FindByIDForUpdate(ctx, delta.accountID)
		if err != nil {
			return nil, nil, operationFailed("failed to re-fetch account", err)
		}

		if delta.amount.IsNegative() {
			err = account.ApplyWithdraw(money.FromCents(-delta.amount.Cents()))
		} else {
			err = account.ApplyDeposit(delta.amount)
		}
		if err != nil {
			var insufficient *models.InsufficientFundsError
			if errors.As(err, &insufficient) {
				// Lost a race to another withdrawal since the fail-fast
				// check; surface the same structured rejection.
				return nil, nil, &ServiceError{
					Code:    ErrCodeInsufficientFunds,
					Message: "insufficient funds",
					Err:     insufficient,
				}
			}
			return nil, nil, operationFailed("failed to apply balance change", err)
		}

		if err := uow.Accounts().UpdateBalance(ctx, account.ID, account.Balance); err != nil {
			return nil, nil, operationFailed("failed to save account balance", err)
		}
		accounts[account.ID] = account
	}

	if err := uow.Transactions().Create(ctx, &e.txn); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return nil, nil, &ServiceError{
				Code:    ErrCodeValidation,
				Message: "invalid transaction record",
				Err:     err,
			}
		}
		return nil, nil, operationFailed("failed to append transaction", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, operationFailed("failed to commit unit of work", err)
	}
	committed = true

	return &e.txn, accounts, nil
}

func operationFailed(message string, err error) error {
	return &ServiceError{
		Code:    ErrCodeOperationFailed,
		Message: message,
		Err:     err,
	}
}
