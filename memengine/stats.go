package memengine

// Stats are runtime counters tracking cache effectiveness: hits, misses,
// and evictions. Backed by atomic counters since memengine.Engine is
// accessed concurrently without a single top-level lock held across a
// whole Get.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Hits:      e.hits.Load(),
		Misses:    e.misses.Load(),
		Evictions: e.evictions.Load(),
	}
}

func (e *Engine) recordHit()              { e.hits.Add(1) }
func (e *Engine) recordMiss()             { e.misses.Add(1) }
func (e *Engine) recordEviction(n uint64) { e.evictions.Add(n) }
