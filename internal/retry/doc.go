// Package retry provides transient-failure retry with exponential backoff
// for destination connection establishment. Bulk transfers themselves are
// never retried here; a failed batch surfaces its fault to the caller.
package retry
