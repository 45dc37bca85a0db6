package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// BulkLoader writes batches to one destination table. All inputs except
// the batch are fixed at construction; Load is invoked once per sealed
// batch.
//
// BulkLoader is safe for concurrent Load calls: every call runs on its
// own acquired connection and the resolved mapping is read-only after
// first resolution.
type BulkLoader struct {
	name     string
	table    string
	label    string
	timeout  time.Duration
	conns    pgsink.ConnSource
	resolver pgsink.MappingResolver
	hook     pgsink.PostLoadHook
	logger   pgsink.Logger
}

// New creates a BulkLoader for the given destination.
//
// Panics if conns, resolver, or logger is nil. This is intentional
// fail-fast behavior to prevent cryptic nil pointer dereferences later;
// a nil hook simply skips the post-load step.
func New(
	cfg pgsink.LoadConfig,
	conns pgsink.ConnSource,
	resolver pgsink.MappingResolver,
	logger pgsink.Logger,
) *BulkLoader {
	if conns == nil {
		panic("conns cannot be nil")
	}
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &BulkLoader{
		name:     cfg.Name,
		table:    cfg.Table,
		label:    cfg.Label,
		timeout:  cfg.Timeout,
		conns:    conns,
		resolver: resolver,
		hook:     cfg.Hook,
		logger:   logger,
	}
}

// Load performs one bulk-transfer session for the given batch. The batch
// is never empty (the batcher guarantees it). On success the post-load
// hook, if configured, runs on the still-open connection; the connection
// is released on every exit path before the fault propagates.
func (l *BulkLoader) Load(ctx context.Context, batch []pgsink.Record) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	mapping, err := l.resolver.Resolve(ctx, l.label, l.table)
	if err != nil {
		return fault(pgsink.ErrMappingFailed, "resolve columns for %q (label %q): %w", l.table, l.label, err)
	}

	conn, err := l.conns.Acquire(ctx)
	if err != nil {
		return fault(pgsink.ErrConnectionFailed, "acquire connection for %q: %w", l.table, err)
	}
	defer conn.Release()

	l.logger.Verbose("%s: bulk-writing %d records of type %T to %q",
		l.name, len(batch), batch[0], l.table)

	rows := newRowSource(batch, mapping)
	if _, err := conn.CopyFrom(ctx, tableIdentifier(l.table), mapping.ColumnNames(), rows); err != nil {
		return fault(pgsink.ErrTransferFailed, "copy %d records to %q: %w", len(batch), l.table, err)
	}

	if l.hook != nil {
		if err := l.hook(ctx, conn, l.table, l.label); err != nil {
			return fault(pgsink.ErrHookFailed, "post-load hook for %q (label %q): %w", l.table, l.label, err)
		}
	}

	l.logger.Info("%s: wrote %d records of type %T to %q",
		l.name, len(batch), batch[0], l.table)
	return nil
}

// fault builds a stage-level error carrying both the error kind sentinel
// and the originating cause, so errors.Is works against either.
func fault(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w", kind, fmt.Errorf(format, args...))
}

// tableIdentifier splits an optionally schema-qualified table name into a
// pgx identifier for proper quoting.
func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}
