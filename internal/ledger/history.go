package ledger

import (
	"context"
	"errors"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/repository"
	"github.com/google/uuid"
)

// History is one page of transaction history plus the total match count.
type History struct {
	Transactions []models.Transaction
	Total        int64
}

// ListTransactions returns transactions matching the filter, newest first.
// Non-admin actors must scope the query to an account they own; admins may
// query any account or the whole ledger.
func (s *Service) ListTransactions(ctx context.Context, filter repository.TransactionFilter, actor Actor) (*History, error) {
	if filter.AccountID != nil {
		account, err := s.store.Accounts().FindByID(ctx, *filter.AccountID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, &ServiceError{
					Code:    ErrCodeAccountNotFound,
					Message: "account not found",
				}
			}
			return nil, &ServiceError{
				Code:    ErrCodePersistence,
				Message: "failed to look up account",
				Err:     err,
			}
		}
		if err := authorize(actor, account); err != nil {
			return nil, err
		}
	} else if !actor.IsAdmin {
		return nil, &ServiceError{
			Code:    ErrCodeAccessDenied,
			Message: "account filter required",
		}
	}

	txns, err := s.store.Transactions().List(ctx, filter)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to list transactions",
			Err:     err,
		}
	}

	total, err := s.store.Transactions().Count(ctx, filter)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to count transactions",
			Err:     err,
		}
	}

	return &History{Transactions: txns, Total: total}, nil
}

// GetTransaction returns one transaction. Non-admin actors must own an
// account on either side of it.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID, actor Actor) (*models.Transaction, error) {
	txn, err := s.store.Transactions().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeTransactionNotFound,
				Message: "transaction not found",
			}
		}
		return nil, &ServiceError{
			Code:    ErrCodePersistence,
			Message: "failed to look up transaction",
			Err:     err,
		}
	}

	if !actor.IsAdmin {
		allowed, err := s.actorOwnsSide(ctx, txn, actor)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, &ServiceError{
				Code:    ErrCodeAccessDenied,
				Message: "access denied",
			}
		}
	}

	return txn, nil
}

// actorOwnsSide reports whether the actor owns the account on either side of
// the transaction.
func (s *Service) actorOwnsSide(ctx context.Context, txn *models.Transaction, actor Actor) (bool, error) {
	for _, id := range []*uuid.UUID{txn.FromAccountID, txn.ToAccountID} {
		if id == nil {
			continue
		}
		account, err := s.store.Accounts().FindByID(ctx, *id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return false, &ServiceError{
				Code:    ErrCodePersistence,
				Message: "failed to look up account",
				Err:     err,
			}
		}
		if account.OwnerID == actor.UserID {
			return true, nil
		}
	}
	return false, nil
}
