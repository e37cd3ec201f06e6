package engine

import (
	"context"
	"fmt"

	"github.com/ilkerhalil/kvlite"
)

// upsertArgs builds the positional argument slice for the dialect's
// UpsertSQL, walking its returned column-name order (which may repeat a
// column, e.g. the SQL Server UPDATE-then-INSERT batch) against a
// name->value map built from the entry.
func upsertArgs(columns []string, entry kvlite.CacheEntry) []any {
	values := map[string]any{
		"hash":         entry.Hash,
		"partition":    entry.Partition,
		"key":          entry.Key,
		"utc_creation": entry.UTCCreation,
		"utc_expiry":   entry.UTCExpiry,
		"interval":     entry.Interval,
		"value":        entry.Value,
		"compressed":   entry.Compressed,
	}
	for i := 0; i < kvlite.MaxParents; i++ {
		var h any
		var k any
		if i < len(entry.Parents) {
			h = entry.Parents[i].Hash
			k = entry.Parents[i].Key
		}
		values[fmt.Sprintf("parent_hash_%d", i)] = h
		values[fmt.Sprintf("parent_key_%d", i)] = k
	}

	args := make([]any, len(columns))
	for i, c := range columns {
		args[i] = values[c]
	}
	return args
}

func (e *Engine) upsert(ctx context.Context, entry kvlite.CacheEntry) error {
	query, columns := e.factory.Dialect().UpsertSQL(e.factory.Table())
	args := upsertArgs(columns, entry)
	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return classifyErr(ctx, "engine.upsert", err)
	}
	if e.insertsSinceCleanup.Add(1) >= int64(e.settings.InsertionCountBeforeCleanup()) {
		e.insertsSinceCleanup.Store(0)
		e.pool.Submit(context.WithoutCancel(ctx), "engine.cleanup", e.runEvictionPass)
	} else if limitMB := e.settings.MaxCacheSizeInMB(); limitMB > 0 {
		e.pool.Submit(context.WithoutCancel(ctx), "engine.sizeCheck", func(ctx context.Context) error {
			size, err := e.GetCacheSizeInBytes(ctx)
			if err != nil || size <= limitMB*1024*1024 {
				return err
			}
			return e.runEvictionPass(ctx)
		})
	}
	return nil
}

func (e *Engine) buildEntry(partition, key string, value []byte, utcExpiry, interval int64, parents []kvlite.ParentRef) (kvlite.CacheEntry, error) {
	data, compressed, err := e.encode(value)
	if err != nil {
		return kvlite.CacheEntry{}, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	resolved := make([]kvlite.ParentRef, len(parents))
	for i, p := range parents {
		parentPartition := p.Partition
		if parentPartition == "" {
			parentPartition = partition
		}
		resolved[i] = kvlite.ParentRef{
			Partition: parentPartition,
			Key:       p.Key,
			Hash:      e.settings.Hasher().Hash(parentPartition, p.Key),
		}
	}
	return kvlite.CacheEntry{
		Hash:        h,
		Partition:   partition,
		Key:         key,
		UTCCreation: e.clock.NowUnix(),
		UTCExpiry:   utcExpiry,
		Interval:    interval,
		Value:       data,
		Compressed:  compressed,
		Parents:     resolved,
	}, nil
}

// AddTimed writes value with an absolute expiry; interval is 0.
func (e *Engine) AddTimed(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.AddTimed", partition, key); err != nil {
		return err
	}
	if err := validateParents("engine.AddTimed", parents); err != nil {
		return err
	}
	entry, err := e.buildEntry(partition, key, value, utcExpiry, 0, parents)
	if err != nil {
		return err
	}
	return e.upsert(ctx, entry)
}

// AddSliding writes value with utc_expiry = now + interval; interval must
// be >= 0.
func (e *Engine) AddSliding(ctx context.Context, partition, key string, value []byte, interval int64, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.AddSliding", partition, key); err != nil {
		return err
	}
	if interval < 0 {
		return kvlite.NewError("engine.AddSliding", kvlite.InvalidArgument, fmt.Errorf("interval must be >= 0"))
	}
	if err := validateParents("engine.AddSliding", parents); err != nil {
		return err
	}
	now := e.clock.NowUnix()
	entry, err := e.buildEntry(partition, key, value, now+interval, interval, parents)
	if err != nil {
		return err
	}
	return e.upsert(ctx, entry)
}

// AddStatic writes value with the configured static interval; each
// successful Get resets utc_expiry to now + interval.
func (e *Engine) AddStatic(ctx context.Context, partition, key string, value []byte, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.AddStatic", partition, key); err != nil {
		return err
	}
	if err := validateParents("engine.AddStatic", parents); err != nil {
		return err
	}
	interval := e.settings.StaticIntervalSeconds()
	now := e.clock.NowUnix()
	entry, err := e.buildEntry(partition, key, value, now+interval, interval, parents)
	if err != nil {
		return err
	}
	return e.upsert(ctx, entry)
}

// AddTimedAsync schedules AddTimed on the bounded executor.
func (e *Engine) AddTimedAsync(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "engine.AddTimedAsync", func(ctx context.Context) error {
		return e.AddTimed(ctx, partition, key, value, utcExpiry, parents...)
	})
}

// AddSlidingAsync schedules AddSliding on the bounded executor.
func (e *Engine) AddSlidingAsync(ctx context.Context, partition, key string, value []byte, interval int64, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "engine.AddSlidingAsync", func(ctx context.Context) error {
		return e.AddSliding(ctx, partition, key, value, interval, parents...)
	})
}

// AddStaticAsync schedules AddStatic on the bounded executor.
func (e *Engine) AddStaticAsync(ctx context.Context, partition, key string, value []byte, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "engine.AddStaticAsync", func(ctx context.Context) error {
		return e.AddStatic(ctx, partition, key, value, parents...)
	})
}
