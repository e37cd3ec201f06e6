package kvlite_test

import (
	"context"
	"testing"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/memengine"
	"github.com/ilkerhalil/kvlite/serializer"
	"github.com/ilkerhalil/kvlite/settings"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string
	Count int
}

func TestGetOrAddTimedWritesOnMiss(t *testing.T) {
	ctx := context.Background()
	st := settings.New()
	c := memengine.New(st)
	defer c.Close()

	calls := 0
	factory := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	v1, err := kvlite.GetOrAddTimed(ctx, c, "", "k", 1<<32, factory)
	require.NoError(t, err)
	require.Equal(t, "computed", string(v1))

	v2, err := kvlite.GetOrAddTimed(ctx, c, "", "k", 1<<32, factory)
	require.NoError(t, err)
	require.Equal(t, "computed", string(v2))
	require.Equal(t, 1, calls, "factory should only run on the first miss")
}

func TestTypedGetRoundTripsThroughSerializer(t *testing.T) {
	ctx := context.Background()
	st := settings.New()
	c := memengine.New(st)
	defer c.Close()

	s := serializer.JSON{}
	in := widget{Name: "sprocket", Count: 42}
	require.NoError(t, kvlite.AddTimedValue(ctx, c, s, "", "w", in, 1<<32))

	out, err := kvlite.Get[widget](ctx, c, s, "", "w")
	require.NoError(t, err)
	v, ok := out.Get()
	require.True(t, ok)
	require.Equal(t, in, v)
}

func TestOptionNoneOrElse(t *testing.T) {
	none := kvlite.None[int]()
	require.Equal(t, 7, none.OrElse(7))

	some := kvlite.Some(3)
	require.Equal(t, 3, some.OrElse(7))
}

func TestErrorKindRoundTrips(t *testing.T) {
	err := kvlite.NewError("op", kvlite.InvalidArgument, nil)
	require.Equal(t, kvlite.InvalidArgument, kvlite.KindOf(err))

	wrapped, ok := kvlite.AsError(err)
	require.True(t, ok)
	require.Equal(t, "op", wrapped.Op)
}
