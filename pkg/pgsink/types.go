package pgsink

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoadConfig contains all parameters needed to construct a bulk-load stage.
type LoadConfig struct {
	// ConnectionString is the PostgreSQL connection string (URI or DSN format)
	ConnectionString string

	// Table is the destination table name, optionally schema-qualified
	// ("events" or "analytics.events").
	Table string

	// Label identifies the destination for column-mapping resolution.
	// Mappings are cached per (Label, Table) key.
	Label string

	// Name identifies the stage instance in logs and diagnostics.
	// If empty, a generated identity is assigned. Purely cosmetic.
	Name string

	// BatchSize is the number of records accumulated before a batch is
	// sealed and handed to the bulk loader. Defaults to DefaultBatchSize.
	BatchSize int

	// QueueDepth is the number of sealed batches that may wait for the
	// loader before upstream Push calls block. Defaults to DefaultQueueDepth.
	QueueDepth int

	// Concurrency is the number of bulk transfers that may be in flight
	// at once. The default of 1 processes batches strictly in emission
	// order; raising it trades ordering for throughput.
	Concurrency int

	// Hook is an optional callback invoked after each successful bulk
	// transfer, while the destination connection is still open.
	Hook PostLoadHook

	// Timeout is the per-batch transfer timeout. Zero means no timeout.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch size cannot be negative: %w", ErrInvalidConfig))
	}

	if c.QueueDepth < 0 {
		errs = append(errs, fmt.Errorf("queue depth cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ApplyDefaults fills zero-valued optional fields with their defaults.
// It returns the receiver for chaining.
func (c *LoadConfig) ApplyDefaults() *LoadConfig {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Name == "" {
		c.Name = GenerateInstanceName()
	}
	return c
}

// GenerateInstanceName returns a fresh framework-assigned stage identity.
// Used when LoadConfig.Name is left empty.
func GenerateInstanceName() string {
	return "bulkload-" + uuid.NewString()[:8]
}

// BufferStatus reports stage occupancy for upstream flow control.
//
// Both counts are record-equivalents: the raw pending item counts of the
// batcher and the loader queue, each multiplied by the configured batch
// size. Throttling logic tuned for an unbatched stage can therefore apply
// its record-level thresholds unchanged.
type BufferStatus struct {
	// InputCount is record-equivalents held by the batcher awaiting a
	// full batch.
	InputCount int64

	// OutputCount is record-equivalents sealed into batches and queued
	// for bulk transfer.
	OutputCount int64
}
