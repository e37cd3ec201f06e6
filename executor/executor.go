// Package executor provides the bounded fire-and-forget off-path used by
// async mutators, sliding-expiry bumps, and eviction passes. Its lifecycle
// (start on construction, stop via a close-once channel) generalizes a
// single ticker-driven janitor goroutine into an arbitrary-task bounded
// worker pool.
package executor

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Pool runs submitted tasks on their own goroutine, capped at a configured
// concurrency. When the cap is reached, Submit degrades gracefully and runs
// the task synchronously on the caller's goroutine rather than queueing
// unboundedly.
type Pool struct {
	sem    *semaphore.Weighted
	logger *zap.Logger

	wg       sync.WaitGroup
	closing  chan struct{}
	closeMu  sync.Mutex
	isClosed bool
}

// New returns a Pool with concurrency capped at min(limit,
// runtime.GOMAXPROCS(0)); if limit <= 0 the cap is runtime.GOMAXPROCS(0).
func New(limit int, logger *zap.Logger) *Pool {
	if procs := runtime.GOMAXPROCS(0); limit <= 0 || limit > procs {
		limit = procs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(limit)),
		logger:  logger,
		closing: make(chan struct{}),
	}
}

// Submit runs fn asynchronously if a concurrency slot is free, otherwise
// runs it synchronously before returning. fn's error, if any, is logged and
// swallowed: callers of an async mutator have already received control back
// and cannot observe a late failure.
func (p *Pool) Submit(ctx context.Context, op string, fn func(ctx context.Context) error) {
	if p.sem.TryAcquire(1) {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			defer p.sem.Release(1)
			p.run(ctx, op, fn)
		}()
		return
	}
	p.run(ctx, op, fn)
}

func (p *Pool) run(ctx context.Context, op string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		p.logger.Warn("background task failed", zap.String("op", op), zap.Error(err))
	}
}

// Close waits for in-flight submitted tasks to finish. It may be called
// more than once; calls after the first are no-ops rather than a panic
// (unlike closing an already-closed channel directly).
func (p *Pool) Close() error {
	p.closeMu.Lock()
	if p.isClosed {
		p.closeMu.Unlock()
		return nil
	}
	p.isClosed = true
	close(p.closing)
	p.closeMu.Unlock()

	p.wg.Wait()
	return nil
}

// Closing returns a channel closed once Close has been called, for callers
// (e.g. a ticker-driven eviction loop) that need to select against shutdown.
func (p *Pool) Closing() <-chan struct{} {
	return p.closing
}
