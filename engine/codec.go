package engine

import "github.com/ilkerhalil/kvlite"

// encode runs the write pipeline: value is already a caller-serialized
// []byte (kvlite.Cache operates only on bytes, leaving typed encoding to
// callers); this just conditionally compresses it.
func (e *Engine) encode(raw []byte) (data []byte, compressed bool, err error) {
	threshold := e.settings.CompressionThresholdBytes()
	if len(raw) <= threshold {
		return raw, false, nil
	}
	out, err := e.settings.Compressor().WrapEncode(raw)
	if err != nil {
		return nil, false, kvlite.NewError("engine.encode", kvlite.SerializationFailure, err)
	}
	return out, true, nil
}

// decode inverts encode.
func (e *Engine) decode(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	out, err := e.settings.Compressor().WrapDecode(data)
	if err != nil {
		return nil, kvlite.NewError("engine.decode", kvlite.SerializationFailure, err)
	}
	return out, nil
}
