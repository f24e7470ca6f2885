package ledger

import (
	"context"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
)

// Transfer moves money between two accounts as one atomic unit: both balance
// mutations and the single audit record commit together, so there is never a
// state where money has left the source but not arrived at the destination.
// The actor must own the source account or be an admin. Inside the unit of
// work the two accounts are locked in ascending ID order regardless of
// direction, so transfers moving money in opposite directions between the
// same pair can never deadlock.
func (s *Service) Transfer(ctx context.Context, fromNumber, toNumber, amount, description string, actor Actor) (*TransferResult, error) {
	amt, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	// Both endpoints resolve before any authorization check, so a bad
	// account number reports account_not_found no matter who asks.
	from, err := s.resolveAccount(ctx, fromNumber, "source account")
	if err != nil {
		return nil, err
	}
	to, err := s.resolveAccount(ctx, toNumber, "destination account")
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, from); err != nil {
		return nil, err
	}

	if from.ID == to.ID {
		return nil, &ServiceError{
			Code:    ErrCodeSelfTransfer,
			Message: "cannot transfer to the same account",
		}
	}

	// Fail fast before opening a unit of work; the check is repeated under
	// lock inside applyEntry.
	if !from.CanWithdraw(amt) {
		return nil, insufficientFunds(from, amt)
	}

	if description == "" {
		description = "Transfer"
	}

	txn, accounts, err := s.applyEntry(ctx, entry{
		deltas: []balanceDelta{
			{accountID: from.ID, amount: money.FromCents(-amt.Cents())},
			{accountID: to.ID, amount: amt},
		},
		txn: models.Transaction{
			FromAccountID: &from.ID,
			ToAccountID:   &to.ID,
			Amount:        amt,
			Type:          models.TransactionTypeTransfer,
			Description:   description,
			Status:        models.TransactionStatusCompleted,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer completed",
		"from_account", from.AccountNumber,
		"to_account", to.AccountNumber,
		"amount", amt.String(),
		"transaction_id", txn.ID,
	)

	return &TransferResult{
		From:        accounts[from.ID],
		To:          accounts[to.ID],
		Transaction: txn,
	}, nil
}
