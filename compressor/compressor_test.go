package compressor_test

import (
	"testing"

	"github.com/ilkerhalil/kvlite/compressor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRoundTrip(t *testing.T) {
	c := compressor.Noop{}
	data := []byte("hello world")

	encoded, err := c.WrapEncode(data)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)

	decoded, err := c.WrapDecode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestCodecsRoundTrip(t *testing.T) {
	payload := make([]byte, 8*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	codecs := map[string]compressor.Compressor{
		"deflate": compressor.Deflate{Level: 6},
		"gzip":    compressor.GZip{Level: 6},
		"snappy":  compressor.Snappy{},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			encoded, err := c.WrapEncode(payload)
			require.NoError(t, err)
			assert.NotEqual(t, payload, encoded, "compressed output should differ from input")

			decoded, err := c.WrapDecode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
			assert.Equal(t, name, c.Name())
		})
	}
}
