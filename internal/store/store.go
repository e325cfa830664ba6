// Package store is a typed, transactional wrapper over the SQLite database
// file that holds an entire Git repository: objects, refs, symbolic refs,
// and server-side config.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chrislloyd/git-remote-sqlite/internal/logging"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting every CRUD
// method in this package run identically inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a connection to a single SQLite-backed repository database.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

// Open opens (creating if absent) the SQLite file at path and ensures the
// full schema exists. Safe to call repeatedly against the same file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInitializationFailed, path, err)
	}
	db.SetMaxOpenConns(1) // single-writer: concurrent multi-writer access is out of scope

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: enable foreign keys: %v", ErrInitializationFailed, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: set journal mode: %v", ErrInitializationFailed, err)
	}

	s := &Store{db: db, log: logging.Default().Named("store")}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		s.log.Debugw("schema creation failed", "error", err)
		return fmt.Errorf("%w: %v", ErrSchemaError, err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exec runs an arbitrary statement outside any explicit transaction.
func (s *Store) Exec(query string, args ...any) error {
	if _, err := s.db.ExecContext(context.Background(), query, args...); err != nil {
		s.log.Debugw("exec failed", "query", query, "error", err)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Tx is a transaction boundary over the store. Every push or fetch runs
// inside exactly one.
type Tx struct {
	tx  *sql.Tx
	log *logging.Logger
}

// Begin starts a new transaction. Transactions are never nested.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrWriteFailed, err)
	}
	return &Tx{tx: tx, log: s.log}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrWriteFailed, err)
	}
	return nil
}

// Rollback aborts the transaction. Calling Rollback after a successful
// Commit is a no-op: database/sql's ErrTxDone is swallowed and nil is
// returned.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("%w: rollback: %v", ErrWriteFailed, err)
	}
	return nil
}
