// Package logging holds the zap logger shared by the packages that log.
//
// Only the outer layers (file loading, APK scanning) log. Decoders never do.
package logging

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the module's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	return nopLogger
}

// SetLogger configures the module's logger. A nil logger restores the no-op default.
// It is safe to call while other goroutines are loading files.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
