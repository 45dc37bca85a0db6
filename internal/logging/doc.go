// Package logging provides concrete implementations of the pgsink.Logger
// interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to a writer with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
