package dex

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/dex/compress"
	"github.com/arloliu/dex/format"
	"github.com/arloliu/dex/internal/logging"
	"github.com/arloliu/dex/internal/options"
)

// DefaultMaxFileSize is the largest input Load accepts unless WithMaxFileSize says otherwise.
const DefaultMaxFileSize = 512 << 20

// Config holds the settings applied by Open and Load.
type Config struct {
	logger       *zap.Logger
	decompressor compress.Decompressor
	compression  format.CompressionType
	maxFileSize  int64
}

// Option configures Open and Load.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{maxFileSize: DefaultMaxFileSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.logger == nil {
		cfg.logger = logging.Logger()
	}

	return cfg, nil
}

// WithLogger sets the logger used for this call instead of the package logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		cfg.logger = logger
	})
}

// WithDecompressor forces the decompressor Load uses, bypassing extension detection.
//
// Parameters:
//   - d: Decompressor applied to the raw file contents (must not be nil)
func WithDecompressor(d compress.Decompressor) Option {
	return options.New(func(cfg *Config) error {
		if d == nil {
			return errors.New("decompressor must not be nil")
		}
		cfg.decompressor = d
		cfg.compression = format.CompressionUnknown

		return nil
	})
}

// WithCompression forces Load to treat the file as compressed with the given type.
//
// Returns an option that fails with errs.ErrUnsupportedCompression for unknown types.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		codec, err := compress.GetCodec(ct)
		if err != nil {
			return err
		}
		cfg.decompressor = codec
		cfg.compression = ct

		return nil
	})
}

// WithMaxFileSize limits both the raw and the decompressed size Load accepts.
//
// Parameters:
//   - n: Maximum size in bytes (must be positive)
func WithMaxFileSize(n int64) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("max file size must be positive, got %d", n)
		}
		cfg.maxFileSize = n

		return nil
	})
}
