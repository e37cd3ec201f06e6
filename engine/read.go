package engine

import (
	"context"
	"database/sql"

	"github.com/ilkerhalil/kvlite"
)

// peekRow reads the CacheValue projection for hash without mutating expiry.
func (e *Engine) peekRow(ctx context.Context, h int64) (kvlite.CacheValue, bool, error) {
	row := e.db.QueryRowContext(ctx, e.factory.Dialect().SelectValueSQL(e.factory.Table()), h)

	var (
		utcExpiry  int64
		interval   int64
		value      []byte
		compressed bool
	)
	switch err := row.Scan(&utcExpiry, &interval, &value, &compressed); {
	case err == sql.ErrNoRows:
		return kvlite.CacheValue{}, false, nil
	case err != nil:
		return kvlite.CacheValue{}, false, classifyErr(ctx, "engine.peekRow", err)
	}

	now := e.clock.NowUnix()
	if utcExpiry < now {
		return kvlite.CacheValue{}, false, nil
	}

	decoded, err := e.decode(value, compressed)
	if err != nil {
		// Corrupt payload: surfaced to readers as absent, not an error.
		e.log.Warn("dropping entry with undecodable payload", errField(err))
		return kvlite.CacheValue{}, false, nil
	}

	return kvlite.CacheValue{UTCExpiry: utcExpiry, Interval: interval, Value: decoded, Compressed: false}, true, nil
}

// Peek returns the value at (partition, key) without mutating expiry.
func (e *Engine) Peek(ctx context.Context, partition, key string) (kvlite.CacheValue, bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.Peek", partition, key); err != nil {
		return kvlite.CacheValue{}, false, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	return e.peekRow(ctx, h)
}

// Get returns the value at (partition, key), bumping utc_expiry on a
// sliding or static hit. The bump is fire-and-forget: Get returns the
// pre-bump value immediately.
func (e *Engine) Get(ctx context.Context, partition, key string) (kvlite.CacheValue, bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.Get", partition, key); err != nil {
		return kvlite.CacheValue{}, false, err
	}
	h := e.settings.Hasher().Hash(partition, key)

	v, ok, err := e.peekRow(ctx, h)
	if err != nil || !ok {
		return v, ok, err
	}
	if v.Interval > 0 {
		newExpiry := e.clock.NowUnix() + v.Interval
		e.pool.Submit(context.WithoutCancel(ctx), "engine.slidingBump", func(ctx context.Context) error {
			_, err := e.db.ExecContext(ctx, e.factory.Dialect().UpdateExpirySQL(e.factory.Table()), newExpiry, h)
			return err
		})
	}
	return v, true, nil
}

// GetItems enumerates visible entries in partition (or every partition if
// empty), without mutating expiry of any of them (GetItems is a read-only
// enumeration; per-item expiry bump is Get's contract, not this one's).
func (e *Engine) GetItems(ctx context.Context, partition string) ([]kvlite.CacheItem, error) {
	return e.selectItems(ctx, partition)
}

// PeekItems is the same enumeration as GetItems; kept distinct to mirror
// Get/Peek naming symmetry even though neither mutates expiry at the
// collection level.
func (e *Engine) PeekItems(ctx context.Context, partition string) ([]kvlite.CacheItem, error) {
	return e.selectItems(ctx, partition)
}

func (e *Engine) selectItems(ctx context.Context, partition string) ([]kvlite.CacheItem, error) {
	partitionFilter := partition != ""
	q := e.factory.Dialect().SelectItemsSQL(e.factory.Table(), partitionFilter)

	args := []any{}
	if partitionFilter {
		args = append(args, partition)
	}
	args = append(args, e.clock.NowUnix())

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classifyErr(ctx, "engine.GetItems", err)
	}
	defer rows.Close()

	var items []kvlite.CacheItem
	for rows.Next() {
		var (
			p, k       string
			utcExpiry  int64
			interval   int64
			value      []byte
			compressed bool
		)
		if err := rows.Scan(&p, &k, &utcExpiry, &interval, &value, &compressed); err != nil {
			return nil, classifyErr(ctx, "engine.GetItems", err)
		}
		decoded, derr := e.decode(value, compressed)
		if derr != nil {
			e.log.Warn("skipping entry with undecodable payload", errField(derr))
			continue
		}
		items = append(items, kvlite.CacheItem{
			Partition: p,
			Key:       k,
			CacheValue: kvlite.CacheValue{
				UTCExpiry: utcExpiry, Interval: interval, Value: decoded, Compressed: false,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(ctx, "engine.GetItems", err)
	}
	return items, nil
}
