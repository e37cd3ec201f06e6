package compressor

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GZip is a Compressor backed by klauspost/compress's gzip, useful when the
// stored payload must also be readable by external gzip-aware tooling.
type GZip struct {
	// Level is the compression level, gzip.DefaultCompression if zero.
	Level int
}

// WrapEncode gzip-compresses data.
func (g GZip) WrapEncode(data []byte) ([]byte, error) {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
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

// WrapDecode gunzips data produced by WrapEncode.
func (g GZip) WrapDecode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Name returns "gzip".
func (g GZip) Name() string { return "gzip" }
