// Package logger provides zap-backed structured logging for pistat.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger writing to stdout at the given level.
// Accepted levels (case-insensitive): debug, info, warn, error.
// When debug is set the level is forced to debug and the output switches
// to the human-readable console encoder.
func New(level string, debug bool) (*zap.SugaredLogger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, err
	}
	if debug {
		zapLevel = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if debug {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		zapLevel,
	)

	return zap.New(core).Sugar(), nil
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = zap.NewNop().Sugar()
)

// SetDefault installs the process-wide logger used by the package-level
// convenience functions.
func SetDefault(l *zap.SugaredLogger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide logger.
func Default() *zap.SugaredLogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Debug logs a debug message using the default logger.
func Debug(message string, args ...interface{}) {
	Default().Debugf(message, args...)
}

// Info logs an informational message using the default logger.
func Info(message string, args ...interface{}) {
	Default().Infof(message, args...)
}

// Warning logs a warning message using the default logger.
func Warning(message string, args ...interface{}) {
	Default().Warnf(message, args...)
}

// Error logs an error message using the default logger.
func Error(message string, args ...interface{}) {
	Default().Errorf(message, args...)
}
