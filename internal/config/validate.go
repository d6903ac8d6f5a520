package config

import (
	"fmt"
	"strings"

	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// Validate checks the configuration for errors. Label problems are reported
// before anything touches the window manager; a bad declaration must never
// produce a partial mutation.
func (c *Config) Validate() error {
	if len(c.Spaces) == 0 {
		return fmt.Errorf("%w: no spaces declared", wm.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Spaces))
	for i, def := range c.Spaces {
		if err := validateDef(i, def); err != nil {
			return err
		}
		key := strings.ToLower(def.Label)
		if seen[key] {
			return fmt.Errorf("%w: duplicate label %q", wm.ErrInvalidConfig, def.Label)
		}
		seen[key] = true
	}

	if c.Settings.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeoutSeconds cannot be negative", wm.ErrInvalidConfig)
	}

	return nil
}

func validateDef(i int, def SpaceDef) error {
	if strings.TrimSpace(def.Label) == "" {
		return fmt.Errorf("%w: space %d: missing label", wm.ErrInvalidConfig, i)
	}
	if def.Label != strings.TrimSpace(def.Label) {
		return fmt.Errorf("%w: space %d: label %q has surrounding whitespace", wm.ErrInvalidConfig, i, def.Label)
	}
	if selector.IsKeyword(wm.KindDisplay, def.Label) {
		return fmt.Errorf("%w: space %d: label %q is a reserved keyword", wm.ErrInvalidConfig, i, def.Label)
	}
	if isDigits(def.Label) {
		return fmt.Errorf("%w: space %d: label %q would collide with index selectors", wm.ErrInvalidConfig, i, def.Label)
	}
	if def.Display < 1 {
		return fmt.Errorf("%w: space %q: display index must be >= 1, got %d", wm.ErrInvalidConfig, def.Label, def.Display)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
