//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress compresses data into a single Zstandard frame with libzstd.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses Zstandard frames with libzstd.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(decompressed) > maxDecodedSize {
		return nil, fmt.Errorf("zstd decompression failed: output exceeds %d bytes", maxDecodedSize)
	}

	return decompressed, nil
}
