package apk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/dex/internal/logging"
	"github.com/arloliu/dex/internal/options"
)

// DefaultMaxEntrySize is the largest uncompressed DEX entry read unless WithMaxEntrySize
// says otherwise.
const DefaultMaxEntrySize = 256 << 20

// Config holds the settings of a Reader.
type Config struct {
	logger       *zap.Logger
	maxEntrySize int64
}

// Option configures a Reader.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{maxEntrySize: DefaultMaxEntrySize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.logger == nil {
		cfg.logger = logging.Logger()
	}

	return cfg, nil
}

// WithLogger sets the logger used by the Reader instead of the package logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		cfg.logger = logger
	})
}

// WithMaxEntrySize limits the uncompressed size of each DEX entry.
func WithMaxEntrySize(n int64) Option {
	return options.New(func(cfg *Config) error {
		if n <= 0 {
			return fmt.Errorf("max entry size must be positive, got %d", n)
		}
		cfg.maxEntrySize = n

		return nil
	})
}
