// Command ledger is the operational entrypoint: it applies migrations and
// runs ledger operations against the configured PostgreSQL database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/atmbank/ledger/internal/config"
	"github.com/atmbank/ledger/internal/db"
	"github.com/atmbank/ledger/internal/ledger"
	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/repository"
	"github.com/google/uuid"
)

const usage = `Usage: ledger <command> [flags]

Commands:
  migrate        apply database migrations
  open           open a new account
  deposit        deposit into an account
  withdraw       withdraw from an account
  transfer       transfer between accounts
  accounts       list an owner's accounts
  history        show an account's transaction history
  balance-sheet  show the system-wide balance total (admin)

Common flags:
  -actor <id>    user id the operation runs as (default 1)
  -admin         run with admin privileges
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	ctx := context.Background()
	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	service := ledger.NewService(repository.NewSQLStore(database), logger)

	if err := run(ctx, os.Args[1], os.Args[2:], database, service); err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, database *db.DB, service *ledger.Service) error {
	switch command {
	case "migrate":
		return database.Migrate(ctx)
	case "open":
		return runOpen(ctx, args, service)
	case "deposit":
		return runDeposit(ctx, args, service)
	case "withdraw":
		return runWithdraw(ctx, args, service)
	case "transfer":
		return runTransfer(ctx, args, service)
	case "accounts":
		return runAccounts(ctx, args, service)
	case "history":
		return runHistory(ctx, args, service)
	case "balance-sheet":
		return runBalanceSheet(ctx, args, service)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// actorFlags registers the flags shared by every operation and returns a
// builder for the resulting actor.
func actorFlags(fs *flag.FlagSet) func() ledger.Actor {
	userID := fs.Int64("actor", 1, "user id the operation runs as")
	admin := fs.Bool("admin", false, "run with admin privileges")
	return func() ledger.Actor {
		return ledger.Actor{UserID: *userID, IsAdmin: *admin}
	}
}

func runOpen(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	actor := actorFlags(fs)
	owner := fs.Int64("owner", 0, "owner user id (defaults to the actor)")
	accountType := fs.String("type", "checking", "account type: checking or savings")
	balance := fs.String("balance", "", "opening balance (admin only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := actor()
	ownerID := *owner
	if ownerID == 0 {
		ownerID = a.UserID
	}

	parsedType, err := models.ParseAccountType(*accountType)
	if err != nil {
		return err
	}

	account, err := service.OpenAccount(ctx, ownerID, parsedType, *balance, a)
	if err != nil {
		return err
	}

	fmt.Printf("opened %s account %s for owner %d, balance %s\n",
		account.Type, account.AccountNumber, account.OwnerID, account.Balance)
	return nil
}

func runDeposit(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("deposit", flag.ExitOnError)
	actor := actorFlags(fs)
	account := fs.String("account", "", "destination account number")
	amount := fs.String("amount", "", "amount to deposit")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := service.Deposit(ctx, *account, *amount, *description, actor())
	if err != nil {
		return err
	}

	fmt.Printf("deposited %s into %s, new balance %s\n",
		result.Transaction.Amount, result.Account.AccountNumber, result.Account.Balance)
	return nil
}

func runWithdraw(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	actor := actorFlags(fs)
	account := fs.String("account", "", "source account number")
	amount := fs.String("amount", "", "amount to withdraw")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := service.Withdraw(ctx, *account, *amount, *description, actor())
	if err != nil {
		return err
	}

	fmt.Printf("withdrew %s from %s, new balance %s\n",
		result.Transaction.Amount, result.Account.AccountNumber, result.Account.Balance)
	return nil
}

func runTransfer(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	actor := actorFlags(fs)
	from := fs.String("from", "", "source account number")
	to := fs.String("to", "", "destination account number")
	amount := fs.String("amount", "", "amount to transfer")
	description := fs.String("description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := service.Transfer(ctx, *from, *to, *amount, *description, actor())
	if err != nil {
		return err
	}

	fmt.Printf("transferred %s from %s (balance %s) to %s (balance %s)\n",
		result.Transaction.Amount,
		result.From.AccountNumber, result.From.Balance,
		result.To.AccountNumber, result.To.Balance)
	return nil
}

func runAccounts(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	actor := actorFlags(fs)
	owner := fs.Int64("owner", 0, "owner user id (defaults to the actor)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := actor()
	ownerID := *owner
	if ownerID == 0 {
		ownerID = a.UserID
	}

	accounts, err := service.ListAccounts(ctx, ownerID, a)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tTYPE\tBALANCE\tOPENED")
	for _, account := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			account.AccountNumber, account.Type, account.Balance,
			account.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runHistory(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	actor := actorFlags(fs)
	account := fs.String("account", "", "account number to show history for")
	txnType := fs.String("type", "", "filter by type: deposit, withdrawal or transfer")
	limit := fs.Int("limit", 20, "maximum entries to show")
	offset := fs.Int("offset", 0, "entries to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a := actor()
	filter := repository.TransactionFilter{Limit: *limit, Offset: *offset}

	if *account != "" {
		found, err := service.GetAccount(ctx, *account, a)
		if err != nil {
			return err
		}
		filter.AccountID = &found.ID
	}
	if *txnType != "" {
		parsed, err := models.ParseTransactionType(*txnType)
		if err != nil {
			return err
		}
		filter.Type = &parsed
	}

	history, err := service.ListTransactions(ctx, filter, a)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tFROM\tTO\tSTATUS\tAT")
	for _, txn := range history.Transactions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.Type, txn.Amount,
			formatAccountID(txn.FromAccountID), formatAccountID(txn.ToAccountID),
			txn.Status, txn.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("showing %s of %s\n",
		strconv.Itoa(len(history.Transactions)), strconv.FormatInt(history.Total, 10))
	return nil
}

func runBalanceSheet(ctx context.Context, args []string, service *ledger.Service) error {
	fs := flag.NewFlagSet("balance-sheet", flag.ExitOnError)
	actor := actorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	total, err := service.SystemBalance(ctx, actor())
	if err != nil {
		return err
	}

	fmt.Printf("system balance total: %s\n", total)
	return nil
}

func formatAccountID(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()[:8]
}
