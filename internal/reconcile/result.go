package reconcile

import (
	"fmt"
	"strings"
)

// SpaceOutcome records what happened to one space during a reconciliation
// pass. A failed space does not abort its siblings; the zero Err means the
// space ended up where the declaration wants it.
type SpaceOutcome struct {
	SpaceID       int
	Label         string
	TargetDisplay int
	Relabeled     bool
	Moved         bool
	Destroyed     bool
	Created       bool
	Err           error
}

// DisplayOutcome records the ordering pass over one display.
type DisplayOutcome struct {
	DisplayID    int
	DisplayIndex int
	Moves        int
	Err          error
}

// Result aggregates the per-entity outcomes of a reconciliation pass.
type Result struct {
	Spaces   []SpaceOutcome
	Displays []DisplayOutcome
}

// OK reports whether every outcome succeeded.
func (r *Result) OK() bool {
	for _, o := range r.Spaces {
		if o.Err != nil {
			return false
		}
	}
	for _, o := range r.Displays {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Err returns nil when everything succeeded, otherwise an error summarizing
// which entities failed. Individual outcomes keep the full detail.
func (r *Result) Err() error {
	var parts []string
	for _, o := range r.Spaces {
		if o.Err != nil {
			parts = append(parts, fmt.Sprintf("space %q: %v", o.Label, o.Err))
		}
	}
	for _, o := range r.Displays {
		if o.Err != nil {
			parts = append(parts, fmt.Sprintf("display %d: %v", o.DisplayIndex, o.Err))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("reconciliation finished with failures: %s", strings.Join(parts, "; "))
}

// Outcome returns the outcome recorded for the given label, or nil.
func (r *Result) Outcome(label string) *SpaceOutcome {
	for i := range r.Spaces {
		if r.Spaces[i].Label == label {
			return &r.Spaces[i]
		}
	}
	return nil
}
