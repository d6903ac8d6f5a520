package gateway

import (
	"errors"
	"strings"
	"testing"

	"github.com/yourusername/yabactl/internal/wm"
)

func TestCommandErrorClassification(t *testing.T) {
	tests := []struct {
		stderr string
		want   error
	}{
		{"could not locate space with label '1_files'.", wm.ErrNotFound},
		{"could not locate the selected display.", wm.ErrNotFound},
		{"cannot focus an already focused space.", wm.ErrRejected},
		{"acting space is the last user-space on the source display and cannot be destroyed.", wm.ErrRejected},
		{"", wm.ErrRejected},
	}
	for _, tt := range tests {
		err := NewCommandError([]string{"space", "--focus", "1_files"}, tt.stderr)
		if !errors.Is(err, tt.want) {
			t.Errorf("stderr %q classified as %v, want %v", tt.stderr, err.Unwrap(), tt.want)
		}
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := NewCommandError([]string{"space", "--destroy", "3"}, "some failure\n")
	msg := err.Error()
	if !strings.Contains(msg, "space --destroy 3") {
		t.Errorf("message %q should carry the command", msg)
	}
	if !strings.Contains(msg, "some failure") || strings.HasSuffix(msg, "\n") {
		t.Errorf("message %q should carry trimmed stderr", msg)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	if c.binary != DefaultBinary {
		t.Errorf("binary = %q, want %q", c.binary, DefaultBinary)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
	}

	c = NewClient("/opt/homebrew/bin/yabai", DefaultTimeout/2)
	if c.binary != "/opt/homebrew/bin/yabai" || c.timeout != DefaultTimeout/2 {
		t.Errorf("overrides not applied: %+v", c)
	}
}
