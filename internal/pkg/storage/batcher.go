package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linesmith/linesmith/internal/pkg/models"
)

// Batcher accumulates merge operations and writes them as one bulk
// transaction once the configured size is reached, and unconditionally on
// Flush. A failed batch is logged, reported through onFail and discarded;
// there is no automatic retry, so delivery is at-most-once per batch.
type Batcher struct {
	store  EventStore
	size   int
	logger *slog.Logger

	// onFail is invoked once per discarded batch with its size and the
	// write error. May be nil.
	onFail func(operations int, err error)

	mu       sync.Mutex
	buf      []models.MergeOp
	failures int
}

func NewBatcher(store EventStore, size int, logger *slog.Logger, onFail func(operations int, err error)) *Batcher {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Batcher{
		store:  store,
		size:   size,
		logger: logger,
		onFail: onFail,
		buf:    make([]models.MergeOp, 0, size),
	}
}

// Add appends one operation and flushes when the batch is full. Safe for
// concurrent use.
func (b *Batcher) Add(ctx context.Context, op models.MergeOp) {
	b.mu.Lock()
	b.buf = append(b.buf, op)
	var batch []models.MergeOp
	if len(b.buf) >= b.size {
		batch = b.take()
	}
	b.mu.Unlock()

	if batch != nil {
		b.write(ctx, batch)
	}
}

// Flush writes whatever is pending. Called at pipeline shutdown and on
// cancellation so already-computed merges are not silently dropped.
func (b *Batcher) Flush(ctx context.Context) {
	b.mu.Lock()
	batch := b.take()
	b.mu.Unlock()

	if batch != nil {
		b.write(ctx, batch)
	}
}

// Pending returns the number of buffered operations.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Failures returns the number of batches discarded on write error so far.
func (b *Batcher) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// take must be called with the mutex held.
func (b *Batcher) take() []models.MergeOp {
	if len(b.buf) == 0 {
		return nil
	}
	batch := b.buf
	b.buf = make([]models.MergeOp, 0, b.size)
	return batch
}

func (b *Batcher) write(ctx context.Context, batch []models.MergeOp) {
	if err := b.store.ApplyMerges(ctx, batch); err != nil {
		b.logger.Error("batch write failed, discarding batch",
			"operations", len(batch),
			"error", err,
		)
		b.mu.Lock()
		b.failures++
		b.mu.Unlock()
		if b.onFail != nil {
			b.onFail(len(batch), err)
		}
		return
	}
	b.logger.Debug("batch written", "operations", len(batch))
}
