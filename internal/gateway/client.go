package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/wm"
)

const (
	DefaultBinary  = "yabai"
	DefaultTimeout = 10 * time.Second
)

// Client runs yabai message commands as subprocesses. It is the only Gateway
// implementation used outside of tests.
type Client struct {
	binary  string
	timeout time.Duration
}

// NewClient creates a client for the given yabai binary path. Empty values
// fall back to the defaults.
func NewClient(binary string, timeout time.Duration) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{binary: binary, timeout: timeout}
}

// Query implements Gateway.
func (c *Client) Query(ctx context.Context, args ...string) (json.RawMessage, error) {
	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	if !json.Valid(out) {
		return nil, fmt.Errorf("%w: malformed response to %v", wm.ErrTransport, args)
	}
	return json.RawMessage(out), nil
}

// Do implements Gateway.
func (c *Client) Do(ctx context.Context, args ...string) error {
	_, err := c.run(ctx, args)
	return err
}

func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := append([]string{"-m"}, args...)
	cmd := exec.CommandContext(ctx, c.binary, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug().Strs("args", args).Msg("yabai command")

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %v: %v", wm.ErrTransport, args, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr := NewCommandError(args, stderr.String())
		logging.Warn().Strs("args", args).Str("stderr", cmdErr.Stderr).Msg("yabai command failed")
		return nil, cmdErr
	}

	// The process could not be started at all.
	return nil, fmt.Errorf("%w: %s: %v", wm.ErrTransport, c.binary, err)
}
