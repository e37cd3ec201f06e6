package compressor

import "github.com/golang/snappy"

// Snappy is a Compressor backed by the Snappy-family codec: lower
// compression ratio than Deflate/GZip but materially cheaper CPU, a good
// default for latency-sensitive hot paths with moderately-sized payloads.
type Snappy struct{}

// WrapEncode snappy-compresses data.
func (Snappy) WrapEncode(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// WrapDecode decodes data produced by WrapEncode.
func (Snappy) WrapDecode(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// Name returns "snappy".
func (Snappy) Name() string { return "snappy" }
