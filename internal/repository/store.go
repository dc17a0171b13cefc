package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is the subset of *sql.DB / *sql.Tx the repositories use, so every
// repository method can run either standalone or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the connection pool and scopes transactions for compound
// writes (ticket + status propagation, code generation + insert).
type Store struct {
	db *sql.DB
}

// NewStore wraps the pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the pool as a Querier for single-statement operations.
func (s *Store) DB() Querier {
	return s.db
}

// WithinTx runs fn inside a transaction, committing on nil and rolling back
// on error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit tx: %w", err)
	}
	return nil
}
