package memengine

import (
	"context"
	"fmt"

	"github.com/ilkerhalil/kvlite"
)

// buildRow encodes value and resolves each parent's hash (defaulting an
// unset ParentRef.Partition to the child's own partition), mirroring
// package engine's buildEntry.
func (e *Engine) buildRow(partition, key string, value []byte, utcExpiry, interval int64, parents []kvlite.ParentRef) (*row, []int64, error) {
	data, compressed, err := e.encode(value)
	if err != nil {
		return nil, nil, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	resolved := make([]int64, len(parents))
	for i, p := range parents {
		parentPartition := p.Partition
		if parentPartition == "" {
			parentPartition = partition
		}
		resolved[i] = e.settings.Hasher().Hash(parentPartition, p.Key)
	}
	return &row{
		partition:    partition,
		key:          key,
		hash:         h,
		utcCreation:  e.clock.NowUnix(),
		utcExpiry:    utcExpiry,
		interval:     interval,
		value:        data,
		compressed:   compressed,
		parentHashes: resolved,
	}, resolved, nil
}

func (e *Engine) upsert(ctx context.Context, r *row, parentHashes []int64) {
	e.mu.Lock()
	if old, ok := e.data[r.hash]; ok {
		// Replacing an existing row: unlink its old parent edges first so
		// stale parent links don't keep it reachable from a cascade that no
		// longer applies.
		for _, ph := range old.parentHashes {
			if set, ok := e.children[ph]; ok {
				delete(set, r.hash)
			}
		}
	}
	e.data[r.hash] = r
	e.linkParentsLocked(r.hash, parentHashes)
	e.mu.Unlock()

	if e.insertsSinceCleanup.Add(1) >= int64(e.settings.InsertionCountBeforeCleanup()) {
		e.insertsSinceCleanup.Store(0)
		e.pool.Submit(context.WithoutCancel(ctx), "memengine.cleanup", e.runEvictionPass)
	}
}

// AddTimed writes value with an absolute expiry; interval is 0.
func (e *Engine) AddTimed(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.AddTimed", partition, key); err != nil {
		return err
	}
	if err := validateParents("memengine.AddTimed", parents); err != nil {
		return err
	}
	r, ph, err := e.buildRow(partition, key, value, utcExpiry, 0, parents)
	if err != nil {
		return err
	}
	e.upsert(ctx, r, ph)
	return nil
}

// AddSliding writes value with utc_expiry = now + interval; interval must
// be >= 0.
func (e *Engine) AddSliding(ctx context.Context, partition, key string, value []byte, interval int64, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.AddSliding", partition, key); err != nil {
		return err
	}
	if interval < 0 {
		return kvlite.NewError("memengine.AddSliding", kvlite.InvalidArgument, fmt.Errorf("interval must be >= 0"))
	}
	if err := validateParents("memengine.AddSliding", parents); err != nil {
		return err
	}
	now := e.clock.NowUnix()
	r, ph, err := e.buildRow(partition, key, value, now+interval, interval, parents)
	if err != nil {
		return err
	}
	e.upsert(ctx, r, ph)
	return nil
}

// AddStatic writes value with the configured static interval; each
// successful Get resets utc_expiry to now + interval.
func (e *Engine) AddStatic(ctx context.Context, partition, key string, value []byte, parents ...kvlite.ParentRef) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("memengine.AddStatic", partition, key); err != nil {
		return err
	}
	if err := validateParents("memengine.AddStatic", parents); err != nil {
		return err
	}
	interval := e.settings.StaticIntervalSeconds()
	now := e.clock.NowUnix()
	r, ph, err := e.buildRow(partition, key, value, now+interval, interval, parents)
	if err != nil {
		return err
	}
	e.upsert(ctx, r, ph)
	return nil
}

// AddTimedAsync schedules AddTimed on the bounded executor.
func (e *Engine) AddTimedAsync(ctx context.Context, partition, key string, value []byte, utcExpiry int64, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "memengine.AddTimedAsync", func(ctx context.Context) error {
		return e.AddTimed(ctx, partition, key, value, utcExpiry, parents...)
	})
}

// AddSlidingAsync schedules AddSliding on the bounded executor.
func (e *Engine) AddSlidingAsync(ctx context.Context, partition, key string, value []byte, interval int64, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "memengine.AddSlidingAsync", func(ctx context.Context) error {
		return e.AddSliding(ctx, partition, key, value, interval, parents...)
	})
}

// AddStaticAsync schedules AddStatic on the bounded executor.
func (e *Engine) AddStaticAsync(ctx context.Context, partition, key string, value []byte, parents ...kvlite.ParentRef) {
	e.pool.Submit(context.WithoutCancel(ctx), "memengine.AddStaticAsync", func(ctx context.Context) error {
		return e.AddStatic(ctx, partition, key, value, parents...)
	})
}
