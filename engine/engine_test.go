package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/clock"
	"github.com/ilkerhalil/kvlite/engine"
	"github.com/ilkerhalil/kvlite/settings"
	"github.com/ilkerhalil/kvlite/sqlstore"
	"github.com/stretchr/testify/require"
)

// openTestEngine opens a fresh, uniquely-named in-memory SQLite database per
// test so parallel tests never share schema state.
func openTestEngine(t *testing.T, opts ...engine.Option) (*engine.Engine, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(1_700_000_000, 0))

	st := settings.New()
	factory := sqlstore.New(sqlstore.SQLite(), st.QualifiedTableName())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	e, err := engine.Open(context.Background(), factory, dsn, st, append([]engine.Option{engine.WithClock(fake)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, fake
}

func TestAddTimedGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, fake := openTestEngine(t)

	require.NoError(t, e.AddTimed(ctx, "", "k", []byte("hello"), fake.NowUnix()+30))

	v, ok, err := e.Get(ctx, "", "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", string(v.Value))
}

func TestPeekDoesNotBumpExpiry(t *testing.T) {
	ctx := context.Background()
	e, fake := openTestEngine(t)

	require.NoError(t, e.AddSliding(ctx, "", "k", []byte("v"), 5))
	want := fake.NowUnix() + 5
	fake.Advance(2 * time.Second)
	v, ok, err := e.Peek(ctx, "", "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, v.UTCExpiry)

	// A second Peek would see now+5 (two seconds later) had the first one bumped.
	v, ok, err = e.Peek(ctx, "", "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, v.UTCExpiry)
}

func TestRemoveCascadesToChildren(t *testing.T) {
	ctx := context.Background()
	e, fake := openTestEngine(t)

	require.NoError(t, e.AddTimed(ctx, "", "parent", []byte("p"), fake.NowUnix()+60))
	require.NoError(t, e.AddTimed(ctx, "", "child", []byte("c"), fake.NowUnix()+60, kvlite.ParentRef{Key: "parent"}))

	require.NoError(t, e.Remove(ctx, "", "parent"))

	ok, err := e.Contains(ctx, "", "child")
	require.NoError(t, err)
	require.False(t, ok, "child should be cascade-deleted with its parent")
}

func TestClearIgnoreExpiryRemovesEverythingInPartition(t *testing.T) {
	ctx := context.Background()
	e, fake := openTestEngine(t)

	require.NoError(t, e.AddTimed(ctx, "p", "a", []byte("1"), fake.NowUnix()+60))
	require.NoError(t, e.AddTimed(ctx, "p", "b", []byte("2"), fake.NowUnix()+60))

	n, err := e.Clear(ctx, "p", kvlite.IgnoreExpiry)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	count, err := e.Count(ctx, "p", kvlite.IgnoreExpiry)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestGetCacheSizeInBytesCountsAllValues(t *testing.T) {
	ctx := context.Background()
	e, fake := openTestEngine(t)

	require.NoError(t, e.AddTimed(ctx, "", "a", []byte("1234"), fake.NowUnix()+60))
	require.NoError(t, e.AddTimed(ctx, "", "b", []byte("12345678"), fake.NowUnix()+60))

	size, err := e.GetCacheSizeInBytes(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(12), size)
}

func TestPingSucceeds(t *testing.T) {
	e, _ := openTestEngine(t)
	require.NoError(t, e.Ping(context.Background()))
}
