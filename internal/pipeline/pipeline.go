package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/pgsink/internal/batcher"
	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// Stage is the batching bulk-load pipeline stage. A producer goroutine
// feeds it with Push and signals completion with Close; Run drains sealed
// batches into the loader until the input is exhausted, a load faults, or
// the context is canceled.
//
// Typical wiring runs producer and Run under one errgroup, so a stage
// fault cancels the producer's context and unblocks a suspended Push.
type Stage struct {
	cfg     pgsink.LoadConfig
	batcher *batcher.Batcher
	loader  pgsink.Loader
	logger  pgsink.Logger
}

// New creates a Stage from an already-validated config. Defaults are
// applied for unset batch size, queue depth, concurrency, and name.
//
// Panics if loader or logger is nil.
func New(cfg pgsink.LoadConfig, loader pgsink.Loader, logger pgsink.Logger) *Stage {
	if loader == nil {
		panic("loader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	cfg.ApplyDefaults()

	return &Stage{
		cfg:     cfg,
		batcher: batcher.New(cfg.BatchSize, cfg.QueueDepth),
		loader:  loader,
		logger:  logger,
	}
}

// Name returns the stage's instance name.
func (s *Stage) Name() string {
	return s.cfg.Name
}

// Push accepts one record from the upstream producer, suspending while
// the batch queue is full.
func (s *Stage) Push(ctx context.Context, rec pgsink.Record) error {
	return s.batcher.Push(ctx, rec)
}

// Close signals that no more input will arrive, flushing any partial
// batch. Idempotent.
func (s *Stage) Close(ctx context.Context) error {
	return s.batcher.Close(ctx)
}

// Status reports current buffer occupancy in record-equivalents.
func (s *Stage) Status() pgsink.BufferStatus {
	return s.batcher.Status()
}

// Run drains sealed batches into the loader until the batcher's output is
// exhausted. At the default concurrency of 1, batches load strictly in
// emission order and a new transfer starts only after the previous
// session is released.
//
// Cancellation drops batches that have not started; a transfer already
// in flight always runs to completion or failure — there is no
// mid-transfer abort. The first load fault stops the stage and is
// returned as-is.
func (s *Stage) Run(ctx context.Context) error {
	// Detached from upstream cancellation so started transfers finish.
	loadCtx := context.WithoutCancel(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

receive:
	for {
		// A canceled upstream or an earlier fault stops the stage even
		// when the producer never closed it; pending batches are dropped.
		select {
		case <-gctx.Done():
			break receive
		case batch, ok := <-s.batcher.Batches():
			if !ok {
				break receive
			}
			g.Go(func() error {
				// Re-check after waiting for a concurrency slot: a fault in
				// an earlier transfer drops this batch before it starts.
				if gctx.Err() != nil {
					return nil
				}
				if err := s.loader.Load(loadCtx, batch); err != nil {
					s.logger.Error("%s: %v", s.cfg.Name, err)
					return err
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
