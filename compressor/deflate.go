package compressor

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// Deflate is a Compressor backed by klauspost/compress's drop-in, faster
// flate implementation.
type Deflate struct {
	// Level is the compression level, flate.DefaultCompression if zero.
	Level int
}

// WrapEncode deflate-compresses data.
func (d Deflate) WrapEncode(data []byte) ([]byte, error) {
	level := d.Level
	if level == 0 {
		level = flate.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WrapDecode inflates data produced by WrapEncode.
func (d Deflate) WrapDecode(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

// Name returns "deflate".
func (d Deflate) Name() string { return "deflate" }
