// Package log builds the process-wide zap logger.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var defaultLogger = zap.NewNop()

// Options control the logger created by New.
type Options struct {
	Enabled bool
	Verbose bool
	// Path is a file the logs are written to instead of stderr.
	Path string
}

// New returns a no-op logger unless logging is enabled. Verbose loggers
// are human-readable and log at debug level; others emit sampled JSON.
func New(opts Options) (*zap.Logger, error) {
	if !opts.Enabled {
		return zap.NewNop(), nil
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
		cfg.Sampling = nil
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if opts.Path != "" {
		cfg.OutputPaths = []string{opts.Path}
		cfg.ErrorOutputPaths = []string{opts.Path}
	}

	l, err := cfg.Build()
	return l, errors.WithStack(err)
}

// Get returns the process-wide logger.
func Get() *zap.Logger {
	return defaultLogger
}

// Set replaces the process-wide logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger = l
}

// Flush syncs the process-wide logger.
func Flush() {
	_ = defaultLogger.Sync()
}
