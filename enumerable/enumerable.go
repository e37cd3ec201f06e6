// Package enumerable implements a lazy, non-restartable sequence over a
// partition's live entries.
// Nothing is read until the first Next; that call reads the whole partition
// with a single GetItems/PeekItems call and the sequence then walks that
// snapshot. Items are not fetched page by page. The sequence's own cursor
// position can itself be persisted through the same Cache, so a
// long-running scan can resume after a process restart.
package enumerable

import (
	"context"
	"fmt"
	"sort"

	"github.com/ilkerhalil/kvlite"
)

// DefaultPageSize is used when New is not given a positive PageSize option.
const DefaultPageSize = 100

// Enumerable lazily walks the live entries of one partition, a page at a
// time. It is non-restartable: once Next returns ok=false, the sequence is
// exhausted and a fresh Enumerable must be constructed to scan again (the
// underlying GetItems/PeekItems call has no server-side cursor to rewind).
type Enumerable struct {
	cache     kvlite.Cache
	partition string
	pageSize  int
	peek      bool

	buf    []kvlite.CacheItem
	pos    int
	cursor int64 // count of items yielded so far, for cursor persistence
	done   bool
	loaded bool
}

// Option configures an Enumerable at construction.
type Option func(*Enumerable)

// PageSize overrides DefaultPageSize. The value is recorded on the
// Enumerable but does not change how items are read: neither GetItems nor
// PeekItems is paged, and the whole partition is read in one call on the
// first Next. Values <= 0 are ignored.
func PageSize(n int) Option {
	return func(e *Enumerable) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// UsePeek makes the sequence read through Peek semantics (no expiry bump)
// instead of Get semantics. Since GetItems/PeekItems are both read-only at
// the collection level, this only matters for engines that gate Peek
// behind CanPeek.
func UsePeek() Option {
	return func(e *Enumerable) { e.peek = true }
}

// Cursor resumes a previously persisted sequence from position n (the
// count of items already yielded), skipping that many entries from the
// re-fetched partition snapshot, which is ordered by partition and then
// key. Because the snapshot is re-read from
// scratch, entries added or removed since the cursor was saved can shift
// which items fall before/after position n: this enumeration has no
// stronger consistency guarantee than a single GetItems/PeekItems call.
func Cursor(n int64) Option {
	return func(e *Enumerable) { e.cursor = n }
}

// New returns an Enumerable over partition's live entries in cache.
func New(cache kvlite.Cache, partition string, opts ...Option) *Enumerable {
	e := &Enumerable{
		cache:     cache,
		partition: partition,
		pageSize:  DefaultPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Next returns the next item in the sequence, or ok=false once the
// partition snapshot taken at the first call has been fully walked.
func (e *Enumerable) Next(ctx context.Context) (kvlite.CacheItem, bool, error) {
	if e.done {
		return kvlite.CacheItem{}, false, nil
	}
	if !e.loaded {
		if err := e.load(ctx); err != nil {
			return kvlite.CacheItem{}, false, err
		}
	}
	if e.pos >= len(e.buf) {
		e.done = true
		return kvlite.CacheItem{}, false, nil
	}
	item := e.buf[e.pos]
	e.pos++
	e.cursor++
	return item, true, nil
}

// CursorPosition returns the number of items yielded so far, suitable for a later
// Cursor(n) option to resume the scan.
func (e *Enumerable) CursorPosition() int64 { return e.cursor }

func (e *Enumerable) load(ctx context.Context) error {
	var (
		items []kvlite.CacheItem
		err   error
	)
	if e.peek {
		if !e.cache.CanPeek() {
			return kvlite.NewError("enumerable.load", kvlite.NotSupported, fmt.Errorf("cache %s does not support Peek", e.cache.Name()))
		}
		items, err = e.cache.PeekItems(ctx, e.partition)
	} else {
		items, err = e.cache.GetItems(ctx, e.partition)
	}
	if err != nil {
		return err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Partition != items[j].Partition {
			return items[i].Partition < items[j].Partition
		}
		return items[i].Key < items[j].Key
	})
	skip := int(e.cursor)
	if skip > len(items) {
		skip = len(items)
	}
	e.buf = items[skip:]
	e.loaded = true
	return nil
}

// ForEach drains the sequence, invoking fn for every remaining item until
// fn returns an error, the sequence is exhausted, or ctx is cancelled.
func (e *Enumerable) ForEach(ctx context.Context, fn func(kvlite.CacheItem) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, ok, err := e.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}
