package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgsink/internal/logging"
	"github.com/vvka-141/pgsink/pkg/pgsink"
)

// recordingLoader captures loaded batches and tracks transfer overlap.
type recordingLoader struct {
	mu        sync.Mutex
	batches   [][]pgsink.Record
	delay     time.Duration
	failOn    int // 1-based load call to fail on, 0 = never
	active    atomic.Int32
	maxActive atomic.Int32
	loads     atomic.Int32
}

func (l *recordingLoader) Load(_ context.Context, batch []pgsink.Record) error {
	n := l.active.Add(1)
	defer l.active.Add(-1)
	for {
		peak := l.maxActive.Load()
		if n <= peak || l.maxActive.CompareAndSwap(peak, n) {
			break
		}
	}

	if l.delay > 0 {
		time.Sleep(l.delay)
	}

	call := l.loads.Add(1)
	if l.failOn != 0 && int(call) == l.failOn {
		return errors.New("simulated transfer fault")
	}

	l.mu.Lock()
	l.batches = append(l.batches, batch)
	l.mu.Unlock()
	return nil
}

func runStage(t *testing.T, cfg pgsink.LoadConfig, loader pgsink.Loader, input []pgsink.Record) error {
	t.Helper()
	s := New(cfg, loader, logging.NewNullLogger())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
	}()

	ctx := context.Background()
	for _, rec := range input {
		if err := s.Push(ctx, rec); err != nil {
			// Run faulted; stop producing.
			break
		}
	}
	require.NoError(t, s.Close(ctx))
	return <-done
}

func stringRecords(ss ...string) []pgsink.Record {
	recs := make([]pgsink.Record, len(ss))
	for i, s := range ss {
		recs[i] = s
	}
	return recs
}

func TestRun_EndToEndOrderPreserved(t *testing.T) {
	loader := &recordingLoader{}
	cfg := pgsink.LoadConfig{BatchSize: 3, QueueDepth: 2}

	err := runStage(t, cfg, loader, stringRecords("A", "B", "C", "D", "E"))
	require.NoError(t, err)

	require.Len(t, loader.batches, 2)
	assert.Equal(t, stringRecords("A", "B", "C"), loader.batches[0])
	assert.Equal(t, stringRecords("D", "E"), loader.batches[1])
}

func TestRun_DefaultConcurrencyIsSequential(t *testing.T) {
	loader := &recordingLoader{delay: 5 * time.Millisecond}
	cfg := pgsink.LoadConfig{BatchSize: 1, QueueDepth: 4}

	err := runStage(t, cfg, loader, stringRecords("A", "B", "C", "D"))
	require.NoError(t, err)

	assert.Equal(t, int32(1), loader.maxActive.Load(),
		"a transfer must not start before the previous session is released")
	require.Len(t, loader.batches, 4)
}

func TestRun_RaisedConcurrencyOverlaps(t *testing.T) {
	loader := &recordingLoader{delay: 10 * time.Millisecond}
	cfg := pgsink.LoadConfig{BatchSize: 1, QueueDepth: 8, Concurrency: 4}

	err := runStage(t, cfg, loader, stringRecords("A", "B", "C", "D", "E", "F", "G", "H"))
	require.NoError(t, err)

	assert.Greater(t, loader.maxActive.Load(), int32(1))
	assert.Len(t, loader.batches, 8)
}

func TestRun_FaultStopsStage(t *testing.T) {
	loader := &recordingLoader{failOn: 2}
	cfg := pgsink.LoadConfig{BatchSize: 2, QueueDepth: 2}

	err := runStage(t, cfg, loader, stringRecords("A", "B", "C", "D", "E", "F"))
	assert.ErrorContains(t, err, "simulated transfer fault")
	// Only the first batch landed.
	assert.Len(t, loader.batches, 1)
}

func TestRun_CancellationDropsUnstartedBatches(t *testing.T) {
	loader := &recordingLoader{}
	s := New(pgsink.LoadConfig{BatchSize: 1, QueueDepth: 4}, loader, logging.NewNullLogger())

	ctx, cancel := context.WithCancel(context.Background())

	// Queue two batches, then cancel before Run starts draining.
	require.NoError(t, s.Push(ctx, "A"))
	require.NoError(t, s.Push(ctx, "B"))
	require.NoError(t, s.Close(ctx))
	cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, loader.batches)
}

func TestRun_CancellationUnblocksWithoutClose(t *testing.T) {
	loader := &recordingLoader{}
	s := New(pgsink.LoadConfig{BatchSize: 4, QueueDepth: 2}, loader, logging.NewNullLogger())

	ctx, cancel := context.WithCancel(context.Background())

	// A producer that dies mid-stream: some records pushed, no Close.
	require.NoError(t, s.Push(ctx, "A"))
	require.NoError(t, s.Push(ctx, "B"))

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation without Close")
	}
	assert.Empty(t, loader.batches)
}

func TestRun_EmptyInput(t *testing.T) {
	loader := &recordingLoader{}
	cfg := pgsink.LoadConfig{BatchSize: 3}

	err := runStage(t, cfg, loader, nil)
	require.NoError(t, err)
	assert.Empty(t, loader.batches)
}

func TestStatus_ReflectsBufferOccupancy(t *testing.T) {
	loader := &recordingLoader{}
	s := New(pgsink.LoadConfig{BatchSize: 4, QueueDepth: 2}, loader, logging.NewNullLogger())
	ctx := context.Background()

	require.NoError(t, s.Push(ctx, "A"))
	require.NoError(t, s.Push(ctx, "B"))

	status := s.Status()
	assert.Equal(t, int64(2*4), status.InputCount)
	assert.Equal(t, int64(0), status.OutputCount)
}

func TestNew_AssignsGeneratedName(t *testing.T) {
	s := New(pgsink.LoadConfig{}, &recordingLoader{}, logging.NewNullLogger())
	assert.NotEmpty(t, s.Name())
	assert.Contains(t, s.Name(), "bulkload-")

	named := New(pgsink.LoadConfig{Name: "orders-sink"}, &recordingLoader{}, logging.NewNullLogger())
	assert.Equal(t, "orders-sink", named.Name())
}

func TestNew_PanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() { New(pgsink.LoadConfig{}, nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { New(pgsink.LoadConfig{}, &recordingLoader{}, nil) })
}
