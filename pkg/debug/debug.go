// Package debug provides conditional debug logging for mma.
//
// Debug logging is enabled by setting the MMA_DEBUG environment variable:
//
//	MMA_DEBUG=1 mma
//
// The TUI owns stdout and stderr, so messages go to a file: MMA_DEBUG_LOG
// when set, otherwise $XDG_STATE_HOME/mma/debug.log. When disabled
// (default), all debug functions are no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/medadventure/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("processing %d items", count)
//	    // ...
//	    debug.LogTiming("myFunc", elapsed)
//	}
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// logger is non-nil exactly when debug logging is enabled.
var logger atomic.Pointer[zap.SugaredLogger]

func init() {
	if os.Getenv("MMA_DEBUG") != "" {
		SetEnabled(true)
	}
}

// LogPath returns the file debug output is written to.
func LogPath() string {
	if p := os.Getenv("MMA_DEBUG_LOG"); p != "" {
		return p
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "mma-debug.log")
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "mma", "debug.log")
}

func newFileLogger() *zap.Logger {
	path := LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return logger.Load() != nil
}

// SetEnabled allows programmatic control of debug logging. Enabling opens
// the default file logger unless one was installed with SetLogger.
func SetEnabled(e bool) {
	if !e {
		if old := logger.Swap(nil); old != nil {
			_ = old.Sync()
		}
		return
	}
	if logger.Load() == nil {
		logger.CompareAndSwap(nil, newFileLogger().Sugar().Named("mma"))
	}
}

// SetLogger installs l as the debug sink and enables logging. Passing nil
// disables it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		SetEnabled(false)
		return
	}
	logger.Store(l.Sugar().Named("mma"))
}

// Sync flushes buffered log entries.
func Sync() {
	if l := logger.Load(); l != nil {
		_ = l.Sync()
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if l := logger.Load(); l != nil {
		l.Debugf(format, args...)
	}
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if l := logger.Load(); l != nil {
		l.Debugw("timing", "op", name, "elapsed", d)
	}
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	l := logger.Load()
	if l == nil {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if l := logger.Load(); l != nil {
		l.Debugf("%s: %T = %+v", name, v, v)
	}
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	Log("=== %s ===", name)
}

// Assert logs a message and panics if the condition is false.
// Only active when debug is enabled.
func Assert(cond bool, msg string) {
	l := logger.Load()
	if l == nil || cond {
		return
	}
	l.Errorf("ASSERTION FAILED: %s", msg)
	panic(fmt.Sprintf("debug assertion failed: %s", msg))
}
