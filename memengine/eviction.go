package memengine

import "context"

// sizeSoftFactor is the fraction of MaxCacheSizeInMB the size pass targets,
// to avoid thrashing right at the boundary.
const sizeSoftFactor = 0.8

// runEvictionPass runs the two-pass eviction policy:
// 1. expired pass — delete every row whose utc_expiry has passed.
// 2. size pass — if MaxCacheSizeInMB is set and the cache is still over
// limit, delete rows until the estimated size falls under
// limit * sizeSoftFactor.
//
// Invoked off the hot path via the executor once every
// InsertionCountBeforeCleanup inserts. The janitor ticker runs only the
// expired pass (evictExpired), not the size pass.
func (e *Engine) runEvictionPass(ctx context.Context) error {
	e.evictExpired()

	limitMB := e.settings.MaxCacheSizeInMB()
	if limitMB <= 0 {
		return nil
	}
	e.evictBySize(limitMB)
	return nil
}

func (e *Engine) evictExpired() {
	now := e.clock.NowUnix()

	e.mu.Lock()
	defer e.mu.Unlock()
	var expired []int64
	for h, r := range e.data {
		if !r.valid(now) {
			expired = append(expired, h)
		}
	}
	for _, h := range expired {
		e.removeRowLocked(h)
	}
	if len(expired) > 0 {
		e.recordEviction(uint64(len(expired)))
	}
}

// evictBySize deletes rows until the running total falls under
// limitMB * sizeSoftFactor, picking victims by repeated random sampling:
// each round draws a handful of candidate hashes via random.Source and
// evicts whichever sampled candidate expires
// soonest. This approximates the engine package's ORDER BY utc_expiry pass
// without needing a sorted index over the map, at the cost of being a
// heuristic rather than a strict oldest-first order.
func (e *Engine) evictBySize(limitMB int64) {
	targetBytes := int64(float64(limitMB*1024*1024) * sizeSoftFactor)
	const sampleSize = 5

	e.mu.Lock()
	defer e.mu.Unlock()

	hashes := make([]int64, 0, len(e.data))
	var total int64
	for h, r := range e.data {
		hashes = append(hashes, h)
		total += int64(len(r.value))
	}

	for total > targetBytes && len(hashes) > 0 {
		n := sampleSize
		if n > len(hashes) {
			n = len(hashes)
		}
		bestIdx := -1
		var bestExpiry int64
		for i := 0; i < n; i++ {
			idx := int(e.random.Float64() * float64(len(hashes)))
			if idx >= len(hashes) {
				idx = len(hashes) - 1
			}
			r := e.data[hashes[idx]]
			if bestIdx == -1 || r.utcExpiry < bestExpiry {
				bestIdx = idx
				bestExpiry = r.utcExpiry
			}
		}
		victim := hashes[bestIdx]
		total -= int64(len(e.data[victim].value))
		e.removeRowLocked(victim)
		e.recordEviction(1)
		hashes[bestIdx] = hashes[len(hashes)-1]
		hashes = hashes[:len(hashes)-1]
	}
}
