package enumerable

import (
	"context"
	"strconv"

	"github.com/ilkerhalil/kvlite"
)

// cursorPartition isolates persisted cursors from application data so a
// cursor key can never collide with a cached entry.
const cursorPartition = "__kvlite_enumerable_cursor__"

// SaveCursor persists position (an Enumerable's CursorPosition) through the very same
// cache it is enumerating, so a later process can resume the scan with
// Cursor(LoadCursor(...)) instead of re-walking from the start.
// ttlSeconds is the cursor entry's own sliding interval.
func SaveCursor(ctx context.Context, cache kvlite.Cache, partition string, position int64, ttlSeconds int64) error {
	value := []byte(strconv.FormatInt(position, 10))
	return cache.AddSliding(ctx, cursorPartition, partition, value, ttlSeconds)
}

// LoadCursor reads back a cursor saved by SaveCursor for partition. ok is
// false if no cursor has been saved, it expired, or its stored value is not
// a valid position (a corrupt cursor reads as absent, not as an error).
func LoadCursor(ctx context.Context, cache kvlite.Cache, partition string) (int64, bool, error) {
	v, ok, err := cache.Get(ctx, cursorPartition, partition)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(string(v.Value), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}
