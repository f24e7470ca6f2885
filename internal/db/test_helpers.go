package db

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewTestDB wraps an already-open *sql.DB for use in tests. Log output is
// discarded so test runs stay quiet.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{
		DB:     sqlDB,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
