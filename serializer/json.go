package serializer

import "github.com/goccy/go-json"

// JSON is the default Serializer, backed by goccy/go-json: a drop-in
// encoding/json replacement with a faster encoder/decoder, matching what the
// rest of the retrieved corpus reaches for (e.g. erigon's go.mod) rather
// than the standard library package of the same API shape.
type JSON struct{}

// Encode marshals v with goccy/go-json.
func (JSON) Encode(v any) ([]byte, error) { return json.Marshal(v) }

// Decode unmarshals data into out with goccy/go-json.
func (JSON) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

// Name returns "json".
func (JSON) Name() string { return "json" }
