// Package debug provides conditional debug logging for sentiboard.
//
// Debug logging is enabled by setting the SENTIBOARD_DEBUG environment
// variable or passing --verbose:
//
//	SENTIBOARD_DEBUG=1 sentiboard rank --metric total-score
//
// Messages go to stderr through a zap logger so they never mix with TUI frames
// or JSON output on stdout. When disabled (default), all functions are no-ops.
//
// Usage:
//
//	debug.Log("loaded %d influencers", n)
//	defer debug.LogEnterExit("loader.LoadDataset")()
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zap.NewNop().Sugar()
)

func init() {
	if os.Getenv("SENTIBOARD_DEBUG") != "" {
		SetEnabled(true)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Named("sentiboard").Sugar()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled turns debug logging on or off.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e {
		logger = newLogger()
	} else {
		_ = logger.Sync()
		logger = zap.NewNop().Sugar()
	}
}

// SetLogger replaces the underlying logger and enables debug output.
// Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	enabled = l != nil
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

// Logger returns the structured logger, a no-op logger when disabled.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.Desugar()
}

func current() (*zap.SugaredLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugf(format, args...)
}

// LogTiming writes a timing message.
func LogTiming(name string, d time.Duration) {
	l, on := current()
	if !on {
		return
	}
	l.Debugw("timing", "op", name, "took", d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("myFunc")()
func LogEnterExit(name string) func() {
	l, on := current()
	if !on {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Trace is an alias for LogEnterExit.
var Trace = LogEnterExit

// Dump logs a value with its type.
func Dump(name string, v any) {
	l, on := current()
	if !on {
		return
	}
	l.Debugw("dump", "name", name, "type", fmt.Sprintf("%T", v), "value", fmt.Sprintf("%+v", v))
}

// Section logs a section header.
func Section(name string) {
	Log("=== %s ===", name)
}

// Warn logs a warning. Warnings are emitted only when debug is enabled;
// user-facing problems are reported through returned errors.
func Warn(format string, args ...any) {
	l, on := current()
	if !on {
		return
	}
	l.Warnf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	l, _ := current()
	_ = l.Sync()
}
