// Package memengine is the in-memory cache engine: the same kvlite.Cache
// contract as package engine, backed by a concurrent map instead of a SQL
// connection, for callers that don't need persistence.
//
// Same map + sync.RWMutex + ticker-driven janitor shape as a single-key-space
// TTL cache, generalized onto KVLite's partition/key/hash/parent-cascade/
// serializer contract.
package memengine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/clock"
	"github.com/ilkerhalil/kvlite/executor"
	"github.com/ilkerhalil/kvlite/random"
	"github.com/ilkerhalil/kvlite/settings"
	"go.uber.org/zap"
)

// row is the in-memory representation of a CacheEntry, keyed by hash.
type row struct {
	partition string
	key       string
	hash      int64

	utcCreation int64
	utcExpiry   int64
	interval    int64

	value      []byte
	compressed bool

	parentHashes []int64
}

func (r *row) valid(now int64) bool { return r.utcExpiry >= now }

// Engine is the in-memory kvlite.Cache implementation.
//
// data holds every row keyed by hash, the entry's primary identity.
// children indexes parent_hash -> dependent hashes so Remove's cascade
// doesn't need a full scan.
type Engine struct {
	mu       sync.RWMutex
	data     map[int64]*row
	children map[int64]map[int64]struct{}

	settings *settings.Settings
	clock    clock.Clock
	random   random.Source
	pool     *executor.Pool
	log      *zap.Logger

	cleanupInterval time.Duration
	stopOnce        sync.Once
	stopChan        chan struct{}

	insertsSinceCleanup atomic.Int64
	hits, misses        atomic.Uint64
	evictions           atomic.Uint64
}

var _ kvlite.Cache = (*Engine)(nil)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock overrides the default clock.Default.
func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRandom overrides the default random.Default.
func WithRandom(r random.Source) Option { return func(e *Engine) { e.random = r } }

// WithCleanupInterval controls how often the background janitor sweeps
// expired rows. A zero or negative interval (the default) disables the
// janitor; expired rows are then collected only by the eviction pass that
// InsertionCountBeforeCleanup triggers and by explicit Clear(ConsiderExpiry)
// calls. Reads skip expired rows without removing them.
func WithCleanupInterval(d time.Duration) Option {
	return func(e *Engine) { e.cleanupInterval = d }
}

// New constructs a ready Engine and starts its background janitor if
// WithCleanupInterval was configured.
func New(st *settings.Settings, opts ...Option) *Engine {
	e := &Engine{
		data:     make(map[int64]*row),
		children: make(map[int64]map[int64]struct{}),
		settings: st,
		clock:    clock.Default,
		random:   random.Default,
		log:      st.Logger(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = executor.New(st.MaxConcurrentAsyncOps(), e.log)
	e.startJanitor()
	return e
}

func (e *Engine) startJanitor() {
	if e.cleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(e.cleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.evictExpired()
			case <-e.stopChan:
				return
			}
		}
	}()
}

// Name returns the configured cache name (the table name setting doubles
// as a process-local cache identifier when there is no SQL backend).
func (e *Engine) Name() string { return e.settings.CacheEntriesTableName() }

// CanPeek reports true: Peek never mutates expiry here either.
func (e *Engine) CanPeek() bool { return true }

// Ping is a no-op: there is no connection to verify.
func (e *Engine) Ping(ctx context.Context) error { return ctx.Err() }

// Close stops the janitor and the executor.
func (e *Engine) Close() error {
	e.stopOnce.Do(func() { close(e.stopChan) })
	return e.pool.Close()
}

func (e *Engine) partitionOrDefault(partition string) string {
	if partition == "" {
		return e.settings.DefaultPartition()
	}
	return partition
}

func validateKey(op, partition, key string) error {
	if partition == "" || key == "" {
		return kvlite.NewError(op, kvlite.InvalidArgument, fmt.Errorf("partition and key must be non-empty"))
	}
	return nil
}

func validateParents(op string, parents []kvlite.ParentRef) error {
	if len(parents) > kvlite.MaxParents {
		return kvlite.NewError(op, kvlite.InvalidArgument,
			fmt.Errorf("too many parents: %d > %d", len(parents), kvlite.MaxParents))
	}
	return nil
}

// Contains reports whether a valid entry exists for (partition, key).
func (e *Engine) Contains(ctx context.Context, partition, key string) (bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.Contains", partition, key); err != nil {
		return false, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	now := e.clock.NowUnix()

	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.data[h]
	return ok && r.valid(now), nil
}

// Count returns the number of entries visible under mode, scoped to
// partition when non-empty.
func (e *Engine) Count(ctx context.Context, partition string, mode kvlite.CountMode) (int64, error) {
	now := e.clock.NowUnix()
	e.mu.RLock()
	defer e.mu.RUnlock()

	var n int64
	for _, r := range e.data {
		if partition != "" && r.partition != partition {
			continue
		}
		if mode == kvlite.ConsiderExpiry && !r.valid(now) {
			continue
		}
		n++
	}
	return n, nil
}

// Remove deletes the entry at (partition, key) and transitively cascades to
// every descendant whose parent chain includes it.
func (e *Engine) Remove(ctx context.Context, partition, key string) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.Remove", partition, key); err != nil {
		return err
	}
	h := e.settings.Hasher().Hash(partition, key)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cascadeDeleteLocked(h)
	return nil
}

// Clear removes entries in scope according to mode: ConsiderExpiry removes
// only expired rows (cleanup), IgnoreExpiry removes everything in scope.
func (e *Engine) Clear(ctx context.Context, partition string, mode kvlite.CountMode) (int64, error) {
	now := e.clock.NowUnix()
	e.mu.Lock()
	defer e.mu.Unlock()

	var victims []int64
	for h, r := range e.data {
		if partition != "" && r.partition != partition {
			continue
		}
		if mode == kvlite.ConsiderExpiry && r.valid(now) {
			continue
		}
		victims = append(victims, h)
	}
	for _, h := range victims {
		e.removeRowLocked(h)
	}
	return int64(len(victims)), nil
}

// GetCacheSizeInBytes returns the sum of len(value) over all entries,
// including expired ones not yet swept by an eviction pass, matching
// package engine's GetCacheSizeInBytes.
func (e *Engine) GetCacheSizeInBytes(ctx context.Context) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var total int64
	for _, r := range e.data {
		total += int64(len(r.value))
	}
	return total, nil
}

func errField(err error) zap.Field { return zap.Error(err) }
