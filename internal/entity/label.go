package entity

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// CheckLabel verifies that a candidate space label can be applied without
// breaking the uniqueness invariant. excludeID is the id of the space being
// relabeled, so relabeling a space to its own current label passes.
//
// The checks run before any mutation is sent. yabai does not reliably
// reject a colliding label, and once a collision reaches it the label
// becomes useless as a selector, so enforcement has to happen here.
func CheckLabel(ctx context.Context, res *selector.Resolver, label string, excludeID int) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return fmt.Errorf("%w: label cannot be empty", wm.ErrInvalidLabel)
	}
	if trimmed != label {
		return fmt.Errorf("%w: label %q has surrounding whitespace", wm.ErrInvalidLabel, label)
	}
	if selector.IsKeyword(wm.KindDisplay, label) {
		// Display keywords are the superset of all reserved keywords.
		return fmt.Errorf("%w: %q is a reserved keyword", wm.ErrInvalidLabel, label)
	}
	if isAllDigits(label) {
		return fmt.Errorf("%w: %q would collide with index selectors", wm.ErrInvalidLabel, label)
	}

	all, err := res.AllSpaces(ctx)
	if err != nil {
		return err
	}
	for _, sp := range all {
		if sp.ID == excludeID {
			continue
		}
		if strings.EqualFold(sp.Label, label) {
			return fmt.Errorf("%w: %q already held by space %d", wm.ErrInvalidLabel, label, sp.ID)
		}
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
