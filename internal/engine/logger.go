// =============================================================================
// HomeTax Batch Submitter - Run Logger
// =============================================================================
//
// Leveled printf-style logger for the run. StdLogger writes to stderr with a
// level tag; Debug is gated on the verbose flag. The submit package consumes
// the same surface through its own Logger interface.
//
// =============================================================================

package engine

import (
	"fmt"
	"os"
)

// StdLogger logs to stderr with level prefixes.
type StdLogger struct {
	// Verbose enables Debug output.
	Verbose bool
}

func (l *StdLogger) Debug(msg string, args ...interface{}) {
	if l.Verbose {
		l.print("DEBUG", msg, args...)
	}
}

func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.print("INFO", msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...interface{}) {
	l.print("WARN", msg, args...)
}

func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.print("ERROR", msg, args...)
}

func (l *StdLogger) print(level, msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", level, fmt.Sprintf(msg, args...))
}
