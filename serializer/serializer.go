// Package serializer encodes/decodes a typed value to/from a byte stream.
// The engine itself never imports this package's concrete implementations
// directly: it is handed a Serializer at construction and operates only on
// the resulting []byte, keeping the cache engines free of type parameters.
package serializer

// Serializer encodes a Go value to bytes and decodes bytes back into a
// caller-supplied target. Implementations must round-trip every type the
// caller stores through Encode/Decode.
type Serializer interface {
	// Encode marshals v to bytes.
	Encode(v any) ([]byte, error)
	// Decode unmarshals data into out, which must be a non-nil pointer.
	Decode(data []byte, out any) error
	// Name identifies the serializer for diagnostics/logging.
	Name() string
}
