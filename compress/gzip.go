package compress

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/gzip"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

// GzipCompressor handles gzip members, for .dex.gz files.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip compressor.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress compresses data into a gzip member using a pooled writer.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, _ := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses one or more concatenated gzip members.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer r.Close()

	out, err := readAllLimited(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return out, nil
}
