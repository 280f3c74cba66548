package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Runner executes fn atomically. The key names the contended resource so
// lock-based implementations can serialize per key; SQL implementations rely
// on row locks instead and ignore it.
type Runner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// SQLRunner wraps fn in a database transaction and injects it into the
// context so stores pick it up through QuerierFrom.
type SQLRunner struct {
	db *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, dbtx)); err != nil {
		if rbErr := dbtx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MemoryRunner serializes callers on a per-key mutex. It gives the in-memory
// stores the same isolation the SQL runner gets from row locks, without
// pretending to offer rollback.
type MemoryRunner struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{locks: make(map[string]*sync.Mutex)}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock := r.lockFor(key)
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

func (r *MemoryRunner) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}
