// Package notify posts macOS desktop notifications through osascript.
// Purely cosmetic feedback for the CLI commands; the reconciliation core
// never calls into here.
package notify

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/yabactl/internal/logging"
)

// Notifier posts notifications. The zero value is disabled.
type Notifier struct {
	enabled bool
}

// New returns a notifier; pass false to make every Post a no-op.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Post shows a notification with the given title and message. Failures are
// logged and swallowed: a missed notification must never fail a command
// that already succeeded.
func (n *Notifier) Post(title, msg string) {
	if n == nil || !n.enabled {
		return
	}
	script := fmt.Sprintf("display notification %q", msg)
	if title != "" {
		script += fmt.Sprintf(" with title %q", title)
	}
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		logging.Warn().Err(err).Str("title", title).Msg("notification failed")
	}
}
