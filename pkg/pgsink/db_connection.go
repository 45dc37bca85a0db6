package pgsink

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor runs SQL statements on an open destination connection. It is the
// surface handed to post-load hooks: the hook sees the same still-open
// connection the bulk transfer used.
//
// Thread-Safety: Implementations follow their underlying connection's
// guarantees. A hook owns the connection exclusively for the duration of
// its invocation.
type Executor interface {
	// Exec executes a statement without returning any rows.
	// Returns CommandTag containing information about the execution.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Querier executes row-returning queries. Used by the mapping resolver to
// read destination column metadata.
type Querier interface {
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BulkConn is the per-session destination connection surface used by the
// bulk loader: one acquired connection, one in-flight transfer, released
// after the batch completes or fails.
type BulkConn interface {
	Executor

	// CopyFrom performs a bulk write of rowSrc into tableName using the
	// PostgreSQL COPY protocol.
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)

	// Release returns the connection to its pool.
	// After calling Release, the connection should not be used.
	Release()
}

// ConnSource hands out dedicated connections, one per bulk-transfer
// session. The caller must call Release() on the returned BulkConn.
type ConnSource interface {
	Acquire(ctx context.Context) (BulkConn, error)
}
