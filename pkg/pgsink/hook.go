package pgsink

import "context"

// PostLoadHook is an optional caller-supplied callback invoked once per
// successfully transferred batch, after the bulk write and before the
// connection is released. It receives the still-open connection together
// with the destination identifiers, enabling follow-up work in the same
// connection context (for example a stored procedure over the
// just-inserted rows).
//
// A hook fault fails the whole batch-load operation even though the batch
// data has already been durably written; there is no compensating
// rollback.
type PostLoadHook func(ctx context.Context, db Executor, table, label string) error
