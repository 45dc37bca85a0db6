package pgsink

// Logger is the pluggable logging interface used throughout the stage.
// Implementations must be safe for concurrent use; with Concurrency
// above 1, several loads log at once.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations,
	// regardless of verbose mode.
	Info(format string, args ...interface{})

	// Error logs error messages, regardless of verbose mode.
	Error(format string, args ...interface{})
}
