package hasher

import "hash/fnv"

// FNV1a64 is an alternate Hasher using the standard library's FNV-1a, for
// callers that want a dependency-free hash over xxHash64's throughput.
type FNV1a64 struct{}

// Hash returns the FNV-1a 64-bit hash of partition||0x00||key.
func (FNV1a64) Hash(partition, key string) int64 {
	h := fnv.New64a()
	h.Write(concatKey(partition, key))
	return int64(h.Sum64())
}

// Name returns "fnv1a64".
func (FNV1a64) Name() string { return "fnv1a64" }
