// Package log is the process-wide structured logger.
//
// It wraps a single zap.Logger behind package-level functions so that every
// package logs the same way:
//
//	log.Info(logTag+"image skipped", zap.String("file", name), zap.Error(err))
//
// Output goes to stderr; stdout is reserved for the MCP protocol and for
// piping vector output.
package log

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Init builds the global logger for the given level ("debug", "info",
// "warn", "error"). An empty level means "info".
func Init(level string) error {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return err
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = lvl > zapcore.DebugLevel

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global logger. Passing nil installs a no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// L returns the current global logger.
func L() *zap.Logger {
	return logger.Load()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = L().Sync()
}
