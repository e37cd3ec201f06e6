// Package compressor wraps a byte stream with a reversible compression
// codec. The write pipeline (serializer -> compressor) only invokes
// WrapEncode when the uncompressed size exceeds the configured threshold
// (DefaultThresholdBytes unless overridden in settings), so small payloads
// are stored raw and avoid codec overhead.
package compressor

// DefaultThresholdBytes is the default uncompressed-size cutoff below which
// a payload is stored without compression.
const DefaultThresholdBytes = 4 * 1024

// Compressor reversibly wraps/unwraps a byte slice.
type Compressor interface {
	// WrapEncode compresses data.
	WrapEncode(data []byte) ([]byte, error)
	// WrapDecode decompresses data produced by WrapEncode.
	WrapDecode(data []byte) ([]byte, error)
	// Name identifies the codec for diagnostics/logging.
	Name() string
}

// Noop is the identity Compressor: WrapEncode/WrapDecode return the input
// unchanged. Used when MaxCacheSizeInMB-driven savings don't matter or the
// caller opts out of compression entirely.
type Noop struct{}

// WrapEncode returns data unchanged.
func (Noop) WrapEncode(data []byte) ([]byte, error) { return data, nil }

// WrapDecode returns data unchanged.
func (Noop) WrapDecode(data []byte) ([]byte, error) { return data, nil }

// Name returns "none".
func (Noop) Name() string { return "none" }
