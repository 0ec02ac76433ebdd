package repository

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/printstudio/docengine/internal/config"
	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/logger"
	"github.com/printstudio/docengine/internal/storage"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
)

// Flusher writes snapshots to the durable store in the background. Only the
// latest snapshot per key is kept, so a burst of mutations costs one write.
type Flusher struct {
	store      storage.Store
	logger     *logger.Logger
	maxElapsed time.Duration
	// retryDelay is the pause before snapshots that exhausted their retries
	// are attempted again by the background writer
	retryDelay time.Duration

	mu      sync.Mutex
	pending map[string][]byte
	wake    chan struct{}

	stop   context.CancelFunc
	ctx    context.Context
	wg     conc.WaitGroup
	closed bool
}

func NewFlusher(store storage.Store, cfg *config.Configuration, logger *logger.Logger) *Flusher {
	ctx, cancel := context.WithCancel(context.Background())
	maxElapsed := cfg.Storage.FlushRetryMaxElapsed
	if maxElapsed <= 0 {
		maxElapsed = 30 * time.Second
	}
	return &Flusher{
		store:      store,
		logger:     logger,
		maxElapsed: maxElapsed,
		retryDelay: maxElapsed,
		pending:    make(map[string][]byte),
		wake:       make(chan struct{}, 1),
		ctx:        ctx,
		stop:       cancel,
	}
}

// Start launches the background writer
func (f *Flusher) Start() {
	f.wg.Go(f.loop)
}

// Enqueue schedules value to be written under key, replacing any snapshot of
// the same key that has not been written yet.
func (f *Flusher) Enqueue(key string, value []byte) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ierr.NewErrorf("flusher closed, dropping write of %s", key).
			Mark(ierr.ErrStorage)
	}
	f.pending[key] = value
	f.mu.Unlock()

	f.signal()
	return nil
}

func (f *Flusher) signal() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Pending reports how many keys wait to be written
func (f *Flusher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Flusher) loop() {
	for {
		select {
		case <-f.ctx.Done():
			return
		case <-f.wake:
			if err := f.Flush(f.ctx); err != nil {
				f.logger.Errorw("background flush failed, retrying later",
					"error", err,
					"retry_in", f.retryDelay.String())
				f.scheduleRetry()
			}
		}
	}
}

// Flush writes every pending snapshot now. Snapshots that still fail after
// retrying are put back unless a newer one arrived meanwhile.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	batch := f.pending
	f.pending = make(map[string][]byte)
	f.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for key, value := range batch {
		p.Go(func(ctx context.Context) error {
			err := f.write(ctx, key, value)
			if err != nil {
				f.requeue(key, value)
			}
			return err
		})
	}
	return p.Wait()
}

func (f *Flusher) write(ctx context.Context, key string, value []byte) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = f.maxElapsed

	attempt := 0
	op := func() error {
		attempt++
		err := f.store.Put(ctx, key, value)
		if err != nil {
			f.logger.Warnw("storage write failed, retrying", "key", key, "attempt", attempt, "error", err)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return err
	}
	f.logger.Debugw("snapshot flushed", "key", key, "bytes", len(value), "attempts", attempt)
	return nil
}

func (f *Flusher) requeue(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, newer := f.pending[key]; !newer {
		f.pending[key] = value
	}
}

// scheduleRetry wakes the writer again after retryDelay so requeued snapshots
// are not left waiting for the next edit
func (f *Flusher) scheduleRetry() {
	time.AfterFunc(f.retryDelay, func() {
		f.mu.Lock()
		closed := f.closed
		f.mu.Unlock()
		if !closed && f.ctx.Err() == nil {
			f.signal()
		}
	})
}

// Close stops the background writer and writes whatever is still pending
func (f *Flusher) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	f.stop()
	f.wg.Wait()
	return f.Flush(ctx)
}
