package enumerable_test

import (
	"context"
	"testing"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/clock"
	"github.com/ilkerhalil/kvlite/enumerable"
	"github.com/ilkerhalil/kvlite/memengine"
	"github.com/ilkerhalil/kvlite/settings"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) kvlite.Cache {
	t.Helper()
	st := settings.New()
	c := memengine.New(st, memengine.WithClock(clock.Default))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestEnumerableWalksAllItemsOnce(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.AddTimed(ctx, "p", keyOf(i), []byte{byte(i)}, 1<<32))
	}

	e := enumerable.New(c, "p", enumerable.PageSize(2))
	var seen []string
	require.NoError(t, e.ForEach(ctx, func(item kvlite.CacheItem) error {
		seen = append(seen, item.Key)
		return nil
	}))
	require.Len(t, seen, 5)

	// Exhausted: a further Next returns ok=false, not an error, and never
	// re-walks (non-restartable).
	_, ok, err := e.Next(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEnumerableCursorResumesPosition(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, c.AddTimed(ctx, "p", keyOf(i), []byte{byte(i)}, 1<<32))
	}

	first := enumerable.New(c, "p")
	_, ok, err := first.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	pos := first.CursorPosition()
	require.Equal(t, int64(1), pos)

	resumed := enumerable.New(c, "p", enumerable.Cursor(pos))
	var remaining int
	require.NoError(t, resumed.ForEach(ctx, func(kvlite.CacheItem) error {
		remaining++
		return nil
	}))
	require.Equal(t, 3, remaining)
}

func TestSaveAndLoadCursor(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	require.NoError(t, enumerable.SaveCursor(ctx, c, "p", 7, 60))

	n, ok, err := enumerable.LoadCursor(ctx, c, "p")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(7), n)
}

func keyOf(i int) string {
	return string(rune('a' + i))
}
