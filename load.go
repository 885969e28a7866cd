package dex

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/dex/compress"
	"github.com/arloliu/dex/errs"
)

// Load reads a DEX file from disk and opens it.
//
// Files ending in .zst, .zstd, .s2, .lz4 or .gz are decompressed as a whole before
// decoding; WithDecompressor and WithCompression override the extension.
//
// Parameters:
//   - path: File to read
//   - opts: WithLogger, WithDecompressor, WithCompression, WithMaxFileSize
//
// Returns:
//   - *File: Opened file owning the decompressed buffer
//   - error: errs.ErrFileTooLarge if the raw or decompressed size exceeds the limit,
//     errs.ErrUnsupportedCompression for recognized but unsupported extensions, I/O and
//     decompression errors, or any error from Open
func Load(path string, opts ...Option) (*File, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > cfg.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", errs.ErrFileTooLarge, path, info.Size(), cfg.maxFileSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decompressor := cfg.decompressor
	ct := cfg.compression
	if decompressor == nil {
		if decompressor, ct, err = compress.ForPath(path); err != nil {
			return nil, err
		}
	}

	data, err := decompressor.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	if int64(len(data)) > cfg.maxFileSize {
		return nil, fmt.Errorf("%w: %s expands to %d bytes, limit %d", errs.ErrFileTooLarge, path, len(data), cfg.maxFileSize)
	}

	stats := compress.CompressionStats{
		Algorithm:      ct,
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(len(raw)),
	}
	cfg.logger.Debug("loaded dex file",
		zap.String("path", path),
		zap.Stringer("compression", stats.Algorithm),
		zap.Int64("raw_size", stats.CompressedSize),
		zap.Int64("size", stats.OriginalSize),
		zap.Float64("ratio", stats.CompressionRatio()),
	)

	f, err := open(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}
