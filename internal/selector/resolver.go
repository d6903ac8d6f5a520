package selector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/wm"
)

// Resolver converts a selector into a snapshot of the matching entity.
// Exactly one query is issued per resolution; failures are reported
// immediately, retry policy belongs to the caller.
type Resolver struct {
	gw gateway.Gateway
}

// NewResolver creates a resolver over the given gateway.
func NewResolver(gw gateway.Gateway) *Resolver {
	return &Resolver{gw: gw}
}

// Space resolves a space selector.
func (r *Resolver) Space(ctx context.Context, sel Selector) (*models.SpaceProps, error) {
	if err := sel.ValidateFor(wm.KindSpace); err != nil {
		return nil, err
	}
	if sel.IsLabel() {
		return r.spaceByLabel(ctx, sel.Token())
	}
	raw, err := r.gw.Query(ctx, scoped(wm.KindSpace, sel)...)
	if err != nil {
		return nil, err
	}
	var props models.SpaceProps
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: decoding space: %v", wm.ErrTransport, err)
	}
	return &props, nil
}

// spaceByLabel scans the full space list so that a label held by more than
// one space is detected instead of silently resolving to whichever entity
// yabai picks. That situation violates the uniqueness invariant and is
// surfaced as ErrAmbiguous.
func (r *Resolver) spaceByLabel(ctx context.Context, label string) (*models.SpaceProps, error) {
	all, err := r.AllSpaces(ctx)
	if err != nil {
		return nil, err
	}
	var found *models.SpaceProps
	for i := range all {
		if all[i].Label != label {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: label %q held by spaces %d and %d", wm.ErrAmbiguous, label, found.ID, all[i].ID)
		}
		found = &all[i]
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no space labeled %q", wm.ErrNotFound, label)
	}
	return found, nil
}

// Display resolves a display selector.
func (r *Resolver) Display(ctx context.Context, sel Selector) (*models.DisplayProps, error) {
	if err := sel.ValidateFor(wm.KindDisplay); err != nil {
		return nil, err
	}
	raw, err := r.gw.Query(ctx, scoped(wm.KindDisplay, sel)...)
	if err != nil {
		return nil, err
	}
	var props models.DisplayProps
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: decoding display: %v", wm.ErrTransport, err)
	}
	return &props, nil
}

// Window resolves a window selector.
func (r *Resolver) Window(ctx context.Context, sel Selector) (*models.WindowProps, error) {
	if err := sel.ValidateFor(wm.KindWindow); err != nil {
		return nil, err
	}
	raw, err := r.gw.Query(ctx, scoped(wm.KindWindow, sel)...)
	if err != nil {
		return nil, err
	}
	var props models.WindowProps
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: decoding window: %v", wm.ErrTransport, err)
	}
	return &props, nil
}

// AllSpaces returns snapshots of every space.
func (r *Resolver) AllSpaces(ctx context.Context) ([]models.SpaceProps, error) {
	raw, err := r.gw.Query(ctx, "query", "--spaces")
	if err != nil {
		return nil, err
	}
	var all []models.SpaceProps
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%w: decoding spaces: %v", wm.ErrTransport, err)
	}
	return all, nil
}

// AllDisplays returns snapshots of every display.
func (r *Resolver) AllDisplays(ctx context.Context) ([]models.DisplayProps, error) {
	raw, err := r.gw.Query(ctx, "query", "--displays")
	if err != nil {
		return nil, fmt.Errorf("querying displays: %w", err)
	}
	var all []models.DisplayProps
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%w: decoding displays: %v", wm.ErrTransport, err)
	}
	return all, nil
}

// AllWindows returns snapshots of every window.
func (r *Resolver) AllWindows(ctx context.Context) ([]models.WindowProps, error) {
	raw, err := r.gw.Query(ctx, "query", "--windows")
	if err != nil {
		return nil, err
	}
	var all []models.WindowProps
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("%w: decoding windows: %v", wm.ErrTransport, err)
	}
	return all, nil
}

// scoped builds the query argv for one entity of the kind. The selector
// token is omitted for the current entity, which yabai treats as implicit.
func scoped(kind wm.EntityKind, sel Selector) []string {
	args := []string{"query", kind.QueryFlag(), kind.SelectorFlag()}
	if !sel.IsCurrent() {
		args = append(args, sel.Token())
	}
	return args
}
