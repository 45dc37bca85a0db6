package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// PoolAdapter adapts *pgxpool.Pool to the pgsink connection interfaces:
// ConnSource for per-batch bulk sessions and Querier for mapping
// resolution. This keeps the loader and resolver decoupled from pgx pool
// types.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
// Panics if pool is nil.
func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	if pool == nil {
		panic("pool cannot be nil")
	}
	return &PoolAdapter{pool: pool}
}

// Acquire obtains a dedicated connection for one bulk-transfer session.
// *pgxpool.Conn satisfies pgsink.BulkConn directly: Exec, CopyFrom, and
// Release with pool-return semantics.
func (p *PoolAdapter) Acquire(ctx context.Context) (pgsink.BulkConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Query executes a row-returning query on the pool.
func (p *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// Compile-time interface checks
var (
	_ pgsink.ConnSource = (*PoolAdapter)(nil)
	_ pgsink.Querier    = (*PoolAdapter)(nil)
	_ pgsink.BulkConn   = (*pgxpool.Conn)(nil)
)
