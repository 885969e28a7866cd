package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/format"
)

// Compressor compresses a whole payload.
//
// DEX readers never write compressed data; compressors exist so that fixtures and tools
// can produce inputs in the same formats the decompressors accept.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a whole payload compressed in a single format.
//
// Example:
//
//	decompressor := NewZstdCompressor()
//	dexBytes, err := decompressor.Decompress(fileBytes)
//	if err != nil {
//	    return fmt.Errorf("decompression failed: %w", err)
//	}
//
// Thread Safety: all implementations in this package are safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with incompatible algorithm
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes how well a payload compressed.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
//
// Returns errs.ErrUnsupportedCompression for any type without a codec.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}

// ForPath selects a codec from a file name's extension.
//
// Parameters:
//   - path: File name such as "classes.dex" or "classes.dex.zst"
//
// Returns:
//   - Codec: NoOp for uncompressed names, otherwise the matching codec
//   - format.CompressionType: The detected type
//   - error: errs.ErrUnsupportedCompression for recognized but unsupported suffixes
func ForPath(path string) (Codec, format.CompressionType, error) {
	ct := format.CompressionForPath(path)
	codec, err := GetCodec(ct)
	if err != nil {
		return nil, ct, fmt.Errorf("%s: %w", path, err)
	}

	return codec, ct, nil
}

// readAllLimited drains r, failing once the output grows past maxDecodedSize.
func readAllLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxDecodedSize {
		return nil, fmt.Errorf("output exceeds %d bytes", maxDecodedSize)
	}

	return out, nil
}
