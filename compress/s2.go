package compress

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
)

// s2WriterPool pools stream writers; Reset rebinds them to a new destination.
var s2WriterPool = sync.Pool{
	New: func() any {
		return s2.NewWriter(nil, s2.WriterConcurrency(1))
	},
}

var s2ReaderPool = sync.Pool{
	New: func() any {
		return s2.NewReader(nil)
	},
}

// S2Compressor handles the S2 stream format written by the s2c tool. Snappy framed
// streams are accepted on decompression as well.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses data into an S2 stream.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, _ := s2WriterPool.Get().(*s2.Writer)
	defer s2WriterPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("s2 compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("s2 compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses an S2 stream.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, _ := s2ReaderPool.Get().(*s2.Reader)
	defer s2ReaderPool.Put(r)

	r.Reset(bytes.NewReader(data))
	out, err := readAllLimited(r)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
