package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"todo-service/pkg/logger"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrCreateFailed means a write was rolled back; the storage cause is
	// logged, not returned.
	ErrCreateFailed = errors.New("could not create record")
)

// Store performs all data access over an injected connection pool. Handlers
// hold a *Store by reference; there is no package-level connection state.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by the given pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for readiness checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// execTx is the unit of work: begin, run fn, commit. Rolls back on error or
// panic so a failed write never leaves a session half-applied.
func (s *Store) execTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error(ctx, "Transaction rollback failed", "error", rbErr)
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// isUniqueViolation reports whether err is the driver's unique-constraint
// error (postgres 23505, sqlite SQLITE_CONSTRAINT_UNIQUE).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
