// Package repository implements the PostgreSQL store for users and
// invoices: account lookup, ledger reads enriched with counterparty
// usernames, and single-row status updates.
package repository

import (
	"context"
	"errors"
	"fmt"

	// Register the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"
)

// Sentinel errors surfaced by the store. Callers match them with
// errors.Is to pick the HTTP status.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already exists")
)

// Storage wraps the database connection and implements the user and
// invoice repositories.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}
