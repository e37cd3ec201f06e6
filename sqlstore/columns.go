package sqlstore

import "fmt"

// MaxParents mirrors kvlite.MaxParents. Duplicated (rather than imported)
// to keep sqlstore free of a dependency on the root package, since the root
// package's generic Get/Peek helpers depend on nothing in sqlstore.
const MaxParents = 5

// coreColumns are the fixed, non-parent columns of kvl_cache_entries, in
// the order every dialect's templates bind/select them.
var coreColumns = []string{
	"hash", "partition", "key", "utc_creation", "utc_expiry",
	"interval", "value", "compressed",
}

// parentColumns returns the 2*MaxParents parent_hash_i/parent_key_i column
// names in (hash, key) pairs per index.
func parentColumns() []string {
	cols := make([]string, 0, 2*MaxParents)
	for i := 0; i < MaxParents; i++ {
		cols = append(cols, fmt.Sprintf("parent_hash_%d", i), fmt.Sprintf("parent_key_%d", i))
	}
	return cols
}

// allColumns returns coreColumns followed by the parent columns, the full
// write-column order used by UpsertSQL.
func allColumns() []string {
	return append(append([]string(nil), coreColumns...), parentColumns()...)
}
