// Package monitoring provides the process-wide diagnostic logger used by the
// clustering pipeline. Library code logs through Logf/Debugf so embedding
// applications and tests can redirect or mute output without plumbing a
// logger through every call site.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced via SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

var debug bool

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug toggles Debugf output. Off by default.
func SetDebug(enabled bool) {
	debug = enabled
}

// Debugf logs through Logf when debug output is enabled. Per-hit and
// per-slice diagnostics go through Debugf so production runs stay quiet.
func Debugf(format string, v ...interface{}) {
	if debug {
		Logf(format, v...)
	}
}
