package pgsink

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitMappingError    = 12 // Column-mapping resolution failed
	ExitTransferError   = 13 // Bulk transfer rejected by the destination
	ExitHookError       = 14 // Post-load hook failed
)

const (
	// DefaultBatchSize is the number of records per sealed batch.
	DefaultBatchSize = 8192

	// DefaultQueueDepth is the number of sealed batches that may queue
	// for the loader before upstream acceptance blocks.
	DefaultQueueDepth = 1

	// DefaultConcurrency keeps exactly one bulk transfer in flight,
	// preserving batch ordering and bounding destination connections.
	DefaultConcurrency = 1

	// DefaultRetryInitialDelay is the default initial delay before the
	// first connection retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between
	// connection retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of
	// connection retry attempts.
	DefaultRetryMaxAttempts = 3
)
