package pgsink

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector is a unified interface for establishing destination connections.
// Implementations decide pool sizing and may retry transient connect
// failures; once a batch is in flight nothing is retried.
type Connector interface {
	// Connect establishes a connection pool to the destination database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
