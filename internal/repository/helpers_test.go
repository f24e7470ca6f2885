package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/atmbank/ledger/internal/config"
	"github.com/atmbank/ledger/internal/db"
	"github.com/atmbank/ledger/internal/models"
	"github.com/atmbank/ledger/internal/money"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by the environment and applies
// migrations. Tests skip when no database is reachable so the suite stays
// runnable without local infrastructure.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := cfg.Logger.NewLogger()

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return database
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(), "TRUNCATE TABLE transactions, accounts CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// seedAccount inserts an account with a random number so parallel test runs
// never collide.
func seedAccount(t *testing.T, repo AccountRepository, ownerID int64, accountType models.AccountType, balanceCents int64) *models.Account {
	t.Helper()

	account := &models.Account{
		OwnerID:       ownerID,
		AccountNumber: fmt.Sprintf("%s%08d", models.AccountNumberPrefix, 10000000+rand.IntN(90000000)),
		Type:          accountType,
		Balance:       money.FromCents(balanceCents),
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}
