// Package monitoring holds the diagnostic loggers for the motion pipeline.
package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

var debug atomic.Bool

// SetDebug toggles per-sample diagnostics. Off by default; per-sample output
// at sensor rates floods the log.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// DebugEnabled reports whether per-sample diagnostics are on.
func DebugEnabled() bool {
	return debug.Load()
}

// Debugf logs through Logf only when debug diagnostics are enabled.
func Debugf(format string, v ...interface{}) {
	if debug.Load() {
		Logf(format, v...)
	}
}
