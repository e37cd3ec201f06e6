package hasher

import "github.com/cespare/xxhash/v2"

// XXHash64 is the default Hasher, backed by cespare/xxhash/v2. It is the
// library the widest slice of the retrieved corpus reaches for when it
// needs a fast, stable 64-bit hash (HyperCache, arena-cache, shardcache,
// lci, ecache2, and the erigon example repo all depend on it directly).
type XXHash64 struct{}

// Hash returns the xxHash64 of partition||0x00||key, reinterpreted as
// int64 (the sign bit carries no meaning; only bit-pattern equality
// matters for identity).
func (XXHash64) Hash(partition, key string) int64 {
	return int64(xxhash.Sum64(concatKey(partition, key)))
}

// Name returns "xxhash64".
func (XXHash64) Name() string { return "xxhash64" }
