package batcher

import (
	"context"
	"sync/atomic"

	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// Batcher accumulates records into batches of a fixed capacity and emits
// each sealed batch on a bounded channel. The channel bound is the
// backpressure point: when QueueDepth sealed batches are waiting, Push
// blocks until the loader drains one.
//
// Thread-Safety: a single producer goroutine calls Push and Close.
// Status and Batches may be called from any goroutine at any time.
type Batcher struct {
	size    int
	out     chan []pgsink.Record
	open    []pgsink.Record
	pending atomic.Int64
	closed  bool
}

// New creates a Batcher with the given batch capacity and output queue
// depth. Panics if size or queueDepth is not positive; callers are
// expected to have applied config defaults already.
func New(size, queueDepth int) *Batcher {
	if size <= 0 {
		panic("batch size must be positive")
	}
	if queueDepth <= 0 {
		panic("queue depth must be positive")
	}
	return &Batcher{
		size: size,
		out:  make(chan []pgsink.Record, queueDepth),
		open: make([]pgsink.Record, 0, size),
	}
}

// Push appends one record to the open batch, sealing and emitting the
// batch when it reaches capacity. Push blocks while the output queue is
// full, suspending the producer until the loader frees space. Returns
// ctx.Err() if the context is canceled while blocked, and ErrStageClosed
// after Close.
func (b *Batcher) Push(ctx context.Context, rec pgsink.Record) error {
	if b.closed {
		return pgsink.ErrStageClosed
	}

	b.open = append(b.open, rec)
	b.pending.Add(1)

	if len(b.open) < b.size {
		return nil
	}
	if err := b.emit(ctx); err != nil {
		// Canceled while blocked on a full queue: the stage is shutting
		// down, so the undelivered batch is dropped and no further input
		// is accepted.
		b.drop()
		close(b.out)
		return err
	}
	return nil
}

// Close signals end of input: a non-empty partial batch is flushed, then
// the output channel is closed. Empty partials emit nothing. Idempotent.
// Returns ctx.Err() if the context is canceled while the flush is blocked
// on a full queue; the channel is closed regardless.
func (b *Batcher) Close(ctx context.Context) error {
	if b.closed {
		return nil
	}
	b.closed = true
	defer close(b.out)

	if len(b.open) == 0 {
		return nil
	}
	if err := b.emit(ctx); err != nil {
		b.drop()
		return err
	}
	return nil
}

// emit hands the open batch to the output queue.
func (b *Batcher) emit(ctx context.Context) error {
	select {
	case b.out <- b.open:
		b.pending.Add(-int64(len(b.open)))
		b.open = make([]pgsink.Record, 0, b.size)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drop discards the open batch after a canceled emit.
func (b *Batcher) drop() {
	b.closed = true
	b.pending.Store(0)
	b.open = nil
}

// Batches returns the channel of sealed batches, in emission order. The
// channel is closed after Close has flushed any partial batch.
func (b *Batcher) Batches() <-chan []pgsink.Record {
	return b.out
}

// Status reports buffer occupancy in record-equivalents: the raw pending
// record and queued batch counts, each scaled by the batch capacity.
func (b *Batcher) Status() pgsink.BufferStatus {
	size := int64(b.size)
	return pgsink.BufferStatus{
		InputCount:  b.pending.Load() * size,
		OutputCount: int64(len(b.out)) * size,
	}
}

// Size returns the configured batch capacity.
func (b *Batcher) Size() int {
	return b.size
}
