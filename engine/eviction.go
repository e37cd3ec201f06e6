package engine

import (
	"context"

	"github.com/ilkerhalil/kvlite"
	"go.uber.org/zap"
)

// sizeSoftFactor is the fraction of MaxCacheSizeInMB the size pass targets,
// to avoid thrashing right at the boundary.
const sizeSoftFactor = 0.8

// runEvictionPass runs the two-pass eviction policy:
// 1. expired pass — delete every row whose utc_expiry has passed.
// 2. size pass — if MaxCacheSizeInMB is set and the cache is still over
// limit, delete rows ordered by utc_expiry ascending (oldest-expiring
// first) until the estimated size falls under limit * sizeSoftFactor.
//
// Invoked off the hot path via the executor, both periodically (triggered
// by InsertionCountBeforeCleanup) and opportunistically after any insert
// that might have pushed the cache over its size limit.
func (e *Engine) runEvictionPass(ctx context.Context) error {
	if err := e.evictExpired(ctx); err != nil {
		e.log.Warn("expired eviction pass failed", zap.Error(err))
		return err
	}

	limitMB := e.settings.MaxCacheSizeInMB()
	if limitMB <= 0 {
		return nil
	}
	if err := e.evictBySize(ctx, limitMB); err != nil {
		e.log.Warn("size eviction pass failed", zap.Error(err))
		return err
	}
	return nil
}

func (e *Engine) evictExpired(ctx context.Context) error {
	_, err := e.Clear(ctx, "", kvlite.ConsiderExpiry)
	return err
}

// evictBySize deletes rows ordered by utc_expiry ascending until the
// running total falls under limitMB * sizeSoftFactor. It uses a single
// ORDER BY utc_expiry query rather than the Random source to pick
// candidates for simplicity and correctness (no bias toward deleting an
// unexpired row while a strictly older valid one remains); random.Source
// remains available to callers layering reservoir-style sampling over
// GetItems for their own heuristics.
func (e *Engine) evictBySize(ctx context.Context, limitMB int64) error {
	targetBytes := int64(float64(limitMB*1024*1024) * sizeSoftFactor)

	rows, err := e.db.QueryContext(ctx, e.factory.Dialect().SelectOldestHashesSQL(e.factory.Table()))
	if err != nil {
		return classifyErr(ctx, "engine.evictBySize", err)
	}
	defer rows.Close()

	var total int64
	if err := e.db.QueryRowContext(ctx, e.factory.Dialect().SizeSQL(e.factory.Table())).Scan(&total); err != nil {
		return classifyErr(ctx, "engine.evictBySize", err)
	}

	var toDelete []int64
	for rows.Next() && total > targetBytes {
		var h int64
		var size int64
		if err := rows.Scan(&h, &size); err != nil {
			return classifyErr(ctx, "engine.evictBySize", err)
		}
		toDelete = append(toDelete, h)
		total -= size
	}
	if err := rows.Err(); err != nil {
		return classifyErr(ctx, "engine.evictBySize", err)
	}

	for _, h := range toDelete {
		if _, err := e.db.ExecContext(ctx, e.factory.Dialect().DeleteByHashSQL(e.factory.Table()), h); err != nil {
			return classifyErr(ctx, "engine.evictBySize", err)
		}
	}
	return nil
}
