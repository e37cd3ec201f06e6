package serializer

import "github.com/vmihailenco/msgpack/v5"

// MsgPack is a compact binary Serializer alternative to JSON, for callers
// that store high-volume small payloads where encode/decode CPU and wire
// size both matter.
type MsgPack struct{}

// Encode marshals v with MessagePack.
func (MsgPack) Encode(v any) ([]byte, error) { return msgpack.Marshal(v) }

// Decode unmarshals data into out with MessagePack.
func (MsgPack) Decode(data []byte, out any) error { return msgpack.Unmarshal(data, out) }

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }
