package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

type Options struct {
	// File receives the log, appended to; empty means stderr.
	File string
	// Verbosity enables logr V-levels up to its value.
	Verbosity   int
	Development bool
}

// New builds a zap-backed logr.Logger. The returned function flushes buffered entries.
func New(options Options) (logr.Logger, func(), error) {
	config := zap.NewProductionConfig()
	if options.Development {
		config = zap.NewDevelopmentConfig()
	}
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// logr's V(n) is zap's level -n
	config.Level = zap.NewAtomicLevelAt(zapcore.Level(-options.Verbosity))
	if options.File != "" {
		config.OutputPaths = []string{options.File}
		config.ErrorOutputPaths = []string{options.File}
	}

	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("cannot build logger: %w", err)
	}
	return zapr.NewLogger(zapLogger), func() { _ = zapLogger.Sync() }, nil
}

// NewTestLogger returns a logger printing through t at every verbosity.
func NewTestLogger(t zaptest.TestingT) logr.Logger {
	return zapr.NewLogger(zaptest.NewLogger(t, zaptest.Level(zapcore.Level(-2))))
}
