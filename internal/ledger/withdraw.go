package ledger

import (
	"context"

	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
)

// Withdraw debits an account, respecting the type-specific minimum balance.
// Insufficient funds are rejected before any unit of work opens, with the
// structured context a client needs to explain the failure; the balance
// check is repeated under lock inside the unit of work, so concurrent
// withdrawals can never overdraw the account.
func (s *Service) Withdraw(ctx context.Context, accountNumber, amount, description string, actor Actor) (*OperationResult, error) {
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

	// Fail fast on an insufficient balance; no unit of work is opened.
	if !account.CanWithdraw(amt) {
		return nil, insufficientFunds(account, amt)
	}

	if description == "" {
		description = "Withdrawal"
	}

	txn, accounts, err := s.applyEntry(ctx, entry{
		deltas: []balanceDelta{{accountID: account.ID, amount: money.FromCents(-amt.Cents())}},
		txn: models.Transaction{
			FromAccountID: &account.ID,
			Amount:        amt,
			Type:          models.TransactionTypeWithdrawal,
			Description:   description,
			Status:        models.TransactionStatusCompleted,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal completed",
		"account_number", account.AccountNumber,
		"amount", amt.String(),
		"transaction_id", txn.ID,
	)

	return &OperationResult{
		Account:     accounts[account.ID],
		Transaction: txn,
	}, nil
}
