package pgsink

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := stage.Run(ctx)
//	if errors.Is(err, pgsink.ErrHookFailed) {
//	    // Data was written; only the follow-up hook failed.
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the destination connection could not
	// be opened or acquired.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrMappingFailed indicates column mappings could not be resolved
	// for the destination table.
	ErrMappingFailed = errors.New("column mapping resolution failed")

	// ErrTransferFailed indicates the destination rejected the bulk
	// write (schema mismatch, constraint violation, timeout).
	ErrTransferFailed = errors.New("bulk transfer failed")

	// ErrHookFailed indicates the post-load hook returned a fault.
	// The batch data has already been durably written when this is
	// reported; there is no compensating rollback.
	ErrHookFailed = errors.New("post-load hook failed")

	// ErrStageClosed indicates a record was pushed after the completion
	// signal.
	ErrStageClosed = errors.New("stage closed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrHookFailed):
		return ExitHookError
	case errors.Is(err, ErrTransferFailed):
		return ExitTransferError
	case errors.Is(err, ErrMappingFailed):
		return ExitMappingError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	// Check for CLI usage error patterns from the flag parser
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "accepts ") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "invalid argument") {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
