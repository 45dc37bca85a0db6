package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgsink/internal/retry"
	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// Connection pool configuration constants
const (
	// DefaultMaxConnIdleTime keeps connections alive between batches to
	// avoid reconnection overhead during long loads.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// StandardConnector implements pgsink.Connector for connection-string
// authentication with automatic retry on transient connect failures.
// Once connected, nothing is retried: per-batch faults surface to the
// caller untouched.
type StandardConnector struct {
	connString    string
	maxConns      int32
	logger        pgsink.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a connector for the given configuration.
// The pool is sized to the stage's concurrency degree plus one connection
// for mapping resolution. Retry behavior uses pgsink defaults:
// DefaultRetryMaxAttempts attempts, exponential backoff starting at
// DefaultRetryInitialDelay, max DefaultRetryMaxDelay.
func NewStandardConnector(cfg pgsink.LoadConfig, logger pgsink.Logger) *StandardConnector {
	if logger == nil {
		panic("logger cannot be nil")
	}

	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewExponentialBackoff(pgsink.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(pgsink.DefaultRetryInitialDelay),
		retry.WithMaxDelay(pgsink.DefaultRetryMaxDelay),
	)

	executor := retry.NewExecutor(classifier, strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connect attempt %d failed (%v), retrying in %v", attempt+1, err, delay)
		})

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = pgsink.DefaultConcurrency
	}

	return &StandardConnector{
		connString:    cfg.ConnectionString,
		maxConns:      int32(concurrency) + 1,
		logger:        logger,
		retryExecutor: executor,
	}
}

// Connect establishes a connection pool, retrying transient failures.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(c.connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w: %w", pgsink.ErrInvalidConfig, err)
	}
	c.configurePool(poolConfig)

	var pool *pgxpool.Pool
	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		// NewWithConfig is lazy; ping to surface unreachable hosts now.
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to destination: %w: %w", pgsink.ErrConnectionFailed, err)
	}

	return pool, nil
}

func (c *StandardConnector) configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = c.maxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// Compile-time interface check
var _ pgsink.Connector = (*StandardConnector)(nil)
