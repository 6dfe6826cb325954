package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// DBTX is the subset of *sql.DB and *sql.Tx that stores use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor returns the transaction in ctx, or db when no transaction is active.
func Executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Runner is the transaction boundary services depend on.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type lockedKey struct{}

// MutexRunner serialises callers with a single lock. It backs the in-memory stores,
// which have no rollback; callers must validate before they write.
type MutexRunner struct {
	mu sync.Mutex
}

func (r *MutexRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(lockedKey{}) != nil {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(context.WithValue(ctx, lockedKey{}, true))
}
