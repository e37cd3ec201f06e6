package memengine

import (
	"context"

	"github.com/ilkerhalil/kvlite"
)

// peekRow reads the CacheValue projection for hash without mutating expiry.
func (e *Engine) peekRow(h int64) (kvlite.CacheValue, bool) {
	now := e.clock.NowUnix()

	e.mu.RLock()
	r, ok := e.data[h]
	e.mu.RUnlock()
	if !ok || !r.valid(now) {
		return kvlite.CacheValue{}, false
	}

	decoded, err := e.decode(r.value, r.compressed)
	if err != nil {
		// Corrupt payload: surfaced to readers as absent, not an error.
		e.log.Warn("dropping entry with undecodable payload", errField(err))
		return kvlite.CacheValue{}, false
	}
	return kvlite.CacheValue{UTCExpiry: r.utcExpiry, Interval: r.interval, Value: decoded, Compressed: false}, true
}

// Peek returns the value at (partition, key) without mutating expiry.
func (e *Engine) Peek(ctx context.Context, partition, key string) (kvlite.CacheValue, bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.Peek", partition, key); err != nil {
		return kvlite.CacheValue{}, false, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	v, ok := e.peekRow(h)
	return v, ok, nil
}

// Get returns the value at (partition, key), bumping utc_expiry on a
// sliding or static hit. The bump is fire-and-forget: Get returns the
// pre-bump value immediately.
func (e *Engine) Get(ctx context.Context, partition, key string) (kvlite.CacheValue, bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.Get", partition, key); err != nil {
		return kvlite.CacheValue{}, false, err
	}
	h := e.settings.Hasher().Hash(partition, key)

	v, ok := e.peekRow(h)
	if !ok {
		e.recordMiss()
		return v, false, nil
	}
	e.recordHit()
	if v.Interval > 0 {
		newExpiry := e.clock.NowUnix() + v.Interval
		e.pool.Submit(context.WithoutCancel(ctx), "memengine.slidingBump", func(ctx context.Context) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			if r, ok := e.data[h]; ok {
				r.utcExpiry = newExpiry
			}
			return nil
		})
	}
	return v, true, nil
}

// GetItems enumerates visible entries in partition (or every partition if
// empty), without mutating expiry of any of them.
func (e *Engine) GetItems(ctx context.Context, partition string) ([]kvlite.CacheItem, error) {
	return e.selectItems(partition), nil
}

// PeekItems is the same enumeration as GetItems; kept distinct to mirror
// Get/Peek naming symmetry even though neither mutates expiry at the
// collection level.
func (e *Engine) PeekItems(ctx context.Context, partition string) ([]kvlite.CacheItem, error) {
	return e.selectItems(partition), nil
}

func (e *Engine) selectItems(partition string) []kvlite.CacheItem {
	now := e.clock.NowUnix()

	e.mu.RLock()
	defer e.mu.RUnlock()

	var items []kvlite.CacheItem
	for _, r := range e.data {
		if partition != "" && r.partition != partition {
			continue
		}
		if !r.valid(now) {
			continue
		}
		decoded, err := e.decode(r.value, r.compressed)
		if err != nil {
			e.log.Warn("skipping entry with undecodable payload", errField(err))
			continue
		}
		items = append(items, kvlite.CacheItem{
			Partition: r.partition,
			Key:       r.key,
			CacheValue: kvlite.CacheValue{
				UTCExpiry: r.utcExpiry, Interval: r.interval, Value: decoded, Compressed: false,
			},
		})
	}
	return items
}
