package serializer_test

import (
	"testing"

	"github.com/ilkerhalil/kvlite/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string
	Count int
}

func TestJSONRoundTrip(t *testing.T) {
	s := serializer.JSON{}
	in := sample{Name: "widget", Count: 3}

	data, err := s.Encode(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, "json", s.Name())
}

func TestMsgPackRoundTrip(t *testing.T) {
	s := serializer.MsgPack{}
	in := sample{Name: "widget", Count: 3}

	data, err := s.Encode(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, s.Decode(data, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, "msgpack", s.Name())
}
