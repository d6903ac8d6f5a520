// Package gateway is the command transport to the yabai process. Every
// interaction with the window manager goes through a Gateway: a query
// returning a JSON document, or a mutation returning an empty acknowledgment.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/yabactl/internal/wm"
)

// Gateway is the request/response channel to the window manager. Calls block
// until the external process responds; there is no internal queueing.
type Gateway interface {
	// Query runs a message expecting a JSON document on stdout.
	Query(ctx context.Context, args ...string) (json.RawMessage, error)

	// Do runs a message expecting an empty acknowledgment.
	Do(ctx context.Context, args ...string) error
}

// CommandError is a command the external process accepted but answered with
// a non-zero status. The stderr text is preserved because yabai reports
// benign conditions ("already focused", "cannot move space to itself") the
// same way as real failures.
type CommandError struct {
	Args   []string
	Stderr string
	kind   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("yabai -m %s: %s", strings.Join(e.Args, " "), strings.TrimSpace(e.Stderr))
}

// Unwrap classifies the failure: wm.ErrNotFound when yabai could not locate
// the addressed entity, wm.ErrRejected otherwise.
func (e *CommandError) Unwrap() error { return e.kind }

// NewCommandError classifies stderr into the error taxonomy.
func NewCommandError(args []string, stderr string) *CommandError {
	kind := wm.ErrRejected
	if strings.Contains(stderr, "could not locate") {
		kind = wm.ErrNotFound
	}
	return &CommandError{Args: args, Stderr: stderr, kind: kind}
}
