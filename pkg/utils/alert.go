// =============================================================================
// HomeTax Batch Submitter - Operator Alerts
// =============================================================================
//
// Audible alerts for attended runs. Operators are trained on beep counts
// rather than on-screen text, so the count is the signal: the Beeper emits
// exactly n terminal bells with a short gap between them so they register as
// distinct beeps.
//
// =============================================================================

package utils

import (
	"io"
	"os"
	"time"
)

// Beeper emits terminal-bell alerts. The zero value is disabled; use
// NewBeeper for an enabled one writing to stdout.
type Beeper struct {
	// Enabled gates all output. Disabled beepers swallow alerts silently
	// (unattended runs).
	Enabled bool

	// Out receives the bell characters; defaults to stdout.
	Out io.Writer

	// Gap separates consecutive bells.
	Gap time.Duration
}

// NewBeeper returns an enabled Beeper writing to stdout.
func NewBeeper() *Beeper {
	return &Beeper{Enabled: true, Out: os.Stdout, Gap: 200 * time.Millisecond}
}

// Alert emits n bells. A disabled beeper or non-positive n is a no-op.
func (b *Beeper) Alert(n int) {
	if !b.Enabled || n <= 0 {
		return
	}
	out := b.Out
	if out == nil {
		out = os.Stdout
	}
	for i := 0; i < n; i++ {
		if i > 0 && b.Gap > 0 {
			time.Sleep(b.Gap)
		}
		io.WriteString(out, "\a")
	}
}
