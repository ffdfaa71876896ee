package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoUnit is returned by Commit when the context carries no open unit of work.
var ErrNoUnit = errors.New("no unit of work in context")

// Querier is the subset of *sql.DB and *sql.Tx used by stores.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type unit struct {
	tx   *sql.Tx
	done bool
}

type unitKey struct{}

// UnitOfWork scopes every write issued through Conn between Begin and Commit
// to a single SQL transaction.
type UnitOfWork struct {
	DB *sql.DB
}

// Begin opens a transaction and returns a context carrying it.
func (u UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return ctx, fmt.Errorf("begin unit of work: %w", err)
	}
	return context.WithValue(ctx, unitKey{}, &unit{tx: tx}), nil
}

// Commit commits the unit carried by ctx. Reads through the same context fall
// back to the database afterwards.
func (u UnitOfWork) Commit(ctx context.Context) error {
	un, ok := ctx.Value(unitKey{}).(*unit)
	if !ok || un.done {
		return ErrNoUnit
	}
	un.done = true
	if err := un.tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

// Rollback discards the unit carried by ctx. It is a no-op once committed.
func (u UnitOfWork) Rollback(ctx context.Context) {
	un, ok := ctx.Value(unitKey{}).(*unit)
	if !ok || un.done {
		return
	}
	un.done = true
	_ = un.tx.Rollback()
}

// Conn returns the open transaction from ctx, or fallback when there is none.
func Conn(ctx context.Context, fallback *sql.DB) Querier {
	if un, ok := ctx.Value(unitKey{}).(*unit); ok && !un.done {
		return un.tx
	}
	return fallback
}
