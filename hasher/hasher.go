// Package hasher computes the 64-bit hash of (partition, key) that serves
// as an entry's primary identity.
package hasher

// Hasher computes a deterministic, process-stable 64-bit hash of the
// concatenation partition || 0x00 || key. Must not depend on process-local
// randomization (e.g. Go's built-in map seed).
type Hasher interface {
	Hash(partition, key string) int64
	Name() string
}

// concatKey builds the partition||0x00||key byte sequence hashers operate
// on, without the allocation a fmt.Sprintf round trip would cost.
func concatKey(partition, key string) []byte {
	buf := make([]byte, 0, len(partition)+1+len(key))
	buf = append(buf, partition...)
	buf = append(buf, 0)
	buf = append(buf, key...)
	return buf
}
