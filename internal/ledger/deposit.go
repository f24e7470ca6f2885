package ledger

import (
	"context"

	"github.com/atmbank/ledger/internal/models"
)

// Deposit credits an account. The actor must own the account or be an admin.
// Balance mutation and the audit record commit as one unit of work.
func (s *Service) Deposit(ctx context.Context, accountNumber, amount, description string, actor Actor) (*OperationResult, error) {
	amt, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	account, err := s.resolveAccount(ctx, accountNumber, "account")
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, account); err != nil {
		return nil, err
	}

	if description == "" {
		description = "Deposit"
	}

	txn, accounts, err := s.applyEntry(ctx, entry{
		deltas: []balanceDelta{{accountID: account.ID, amount: amt}},
		txn: models.Transaction{
			ToAccountID: &account.ID,
			Amount:      amt,
			Type:        models.TransactionTypeDeposit,
			Description: description,
			Status:      models.TransactionStatusCompleted,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deposit completed",
		"account_number", account.AccountNumber,
		"amount", amt.String(),
		"transaction_id", txn.ID,
	)

	return &OperationResult{
		Account:     accounts[account.ID],
		Transaction: txn,
	}, nil
}
