package hasher_test

import (
	"testing"

	"github.com/ilkerhalil/kvlite/hasher"
	"github.com/stretchr/testify/assert"
)

func TestHashersAreDeterministicAndKeySensitive(t *testing.T) {
	impls := map[string]hasher.Hasher{
		"xxhash64": hasher.XXHash64{},
		"fnv1a64":  hasher.FNV1a64{},
	}
	for name, h := range impls {
		t.Run(name, func(t *testing.T) {
			a1 := h.Hash("partition", "key")
			a2 := h.Hash("partition", "key")
			assert.Equal(t, a1, a2, "hash must be deterministic")

			b := h.Hash("partition", "other-key")
			assert.NotEqual(t, a1, b, "different keys should (almost certainly) hash differently")

			c := h.Hash("other-partition", "key")
			assert.NotEqual(t, a1, c, "different partitions should (almost certainly) hash differently")

			assert.Equal(t, name, h.Name())
		})
	}
}

func TestConcatKeyAvoidsPartitionKeyAmbiguity(t *testing.T) {
	h := hasher.XXHash64{}
	// Without a separator, ("ab", "c") and ("a", "bc") would collide.
	assert.NotEqual(t, h.Hash("ab", "c"), h.Hash("a", "bc"))
}
