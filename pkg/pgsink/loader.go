package pgsink

import "context"

// Loader performs one bulk transfer per call: a sealed batch is streamed
// into the destination table, the post-load hook (if any) runs on the
// still-open connection, and all session resources are released before
// Load returns, on every exit path.
type Loader interface {
	// Load transfers one batch. Batches are never empty; the batcher
	// guarantees it. Failures are reported as a single fault wrapping
	// one of ErrMappingFailed, ErrConnectionFailed, ErrTransferFailed
	// or ErrHookFailed; nothing is retried here.
	Load(ctx context.Context, batch []Record) error
}
