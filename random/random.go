// Package random abstracts the uniform [0,1) source the in-memory engine's
// size-pass eviction sampler (memengine's evictBySize) uses to pick
// candidate rows at random instead of ordering every row by expiry.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source returns a uniform float64 in [0, 1).
type Source interface {
	Float64() float64
}

// System is the default Source, backed by math/rand/v2's process-global
// generator. Safe for concurrent use.
type System struct{}

// Float64 returns rand.Float64().
func (System) Float64() float64 { return rand.Float64() }

// Default is the package-level System source.
var Default Source = System{}

// Locked wraps a non-concurrency-safe Source (e.g. a seeded *rand.Rand) with
// a mutex, for deterministic-but-concurrent test use.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked wraps src with a mutex.
func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

// Float64 returns src.Float64() under lock.
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Seeded returns a deterministic Source seeded with seed, for reproducible
// eviction-sampling tests.
func Seeded(seed uint64) Source {
	return NewLocked(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}
