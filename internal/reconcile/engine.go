package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/yabactl/internal/config"
	"github.com/yourusername/yabactl/internal/entity"
	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// Engine maps the declared space definitions onto the live set of spaces
// and displays. The definitions are an immutable value for the lifetime of
// the engine; a reconciliation pass never observes a half-updated
// declaration.
type Engine struct {
	gw   gateway.Gateway
	res  *selector.Resolver
	defs []config.SpaceDef
}

// NewEngine validates the declared definitions and builds an engine over
// them. Duplicate or empty labels fail with wm.ErrInvalidConfig before any
// command is sent.
func NewEngine(gw gateway.Gateway, defs []config.SpaceDef) (*Engine, error) {
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if strings.TrimSpace(def.Label) == "" {
			return nil, fmt.Errorf("%w: definition %d has an empty label", wm.ErrInvalidConfig, i)
		}
		if seen[def.Label] {
			return nil, fmt.Errorf("%w: duplicate label %q", wm.ErrInvalidConfig, def.Label)
		}
		seen[def.Label] = true
	}
	owned := make([]config.SpaceDef, len(defs))
	copy(owned, defs)
	return &Engine{gw: gw, res: selector.NewResolver(gw), defs: owned}, nil
}

// Reconcile drives the live spaces toward the declaration: unlabeled spaces
// receive the next unused declared label, each declared space moves to its
// effective display, and every connected display is re-sorted. A failure on
// one space is recorded and reconciliation continues with the rest; the
// returned Result lists every per-entity outcome.
func (e *Engine) Reconcile(ctx context.Context) (*Result, error) {
	result := &Result{}

	displays, err := e.res.AllDisplays(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(displays, func(i, j int) bool { return displays[i].Index < displays[j].Index })
	displayCount := len(displays)
	if displayCount == 0 {
		return nil, fmt.Errorf("%w: no displays reported", wm.ErrTransport)
	}

	if err := e.assignLabels(ctx, result); err != nil {
		return result, err
	}

	// Fresh snapshot: labels just changed.
	spaces, err := e.liveSpaces(ctx)
	if err != nil {
		return result, err
	}

	for _, sp := range spaces {
		def := config.DefByLabel(e.defs, sp.Label)
		if def == nil {
			continue // not declared, leave where it is
		}
		target := clampDisplay(def.Display, displayCount)
		outcome := SpaceOutcome{SpaceID: sp.ID, Label: sp.Label, TargetDisplay: target}
		if sp.DisplayIndex != target {
			sp := sp
			handle := entity.SpaceFromProps(e.gw, &sp)
			if err := handle.SendToDisplay(ctx, target); err != nil {
				outcome.Err = err
				logging.Warn().Str("label", outcome.Label).Err(err).Msg("space move failed")
			} else {
				outcome.Moved = true
			}
		}
		result.Spaces = append(result.Spaces, outcome)
	}

	for _, dp := range displays {
		dp := dp
		handle := entity.DisplayFromProps(e.gw, &dp)
		moves, err := Sort(ctx, e.gw, handle)
		result.Displays = append(result.Displays, DisplayOutcome{
			DisplayID:    dp.ID,
			DisplayIndex: dp.Index,
			Moves:        moves,
			Err:          err,
		})
	}

	return result, nil
}

// Converge makes the live space set match the declared one: excess spaces
// are relabeled to wanted-but-missing labels, leftover excess spaces are
// destroyed, and spaces are created for labels still missing. Follows the
// same partial-failure semantics as Reconcile.
func (e *Engine) Converge(ctx context.Context) (*Result, error) {
	result := &Result{}

	spaces, err := e.liveSpaces(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(e.defs))
	for _, def := range e.defs {
		wanted[def.Label] = true
	}

	var excess []models.SpaceProps
	found := make(map[string]bool)
	for _, sp := range spaces {
		if wanted[sp.Label] {
			found[sp.Label] = true
		} else {
			excess = append(excess, sp)
		}
	}
	var missing []config.SpaceDef
	for _, def := range e.defs {
		if !found[def.Label] {
			missing = append(missing, def)
		}
	}

	// Pair excess spaces with missing labels: a rename is cheaper than a
	// destroy plus create.
	for len(excess) > 0 && len(missing) > 0 {
		sp, def := excess[0], missing[0]
		excess, missing = excess[1:], missing[1:]
		outcome := SpaceOutcome{SpaceID: sp.ID, Label: def.Label}
		handle := entity.SpaceFromProps(e.gw, &sp)
		if err := handle.SetLabel(ctx, def.Label); err != nil {
			outcome.Err = err
		} else {
			outcome.Relabeled = true
		}
		result.Spaces = append(result.Spaces, outcome)
	}

	// Leftover excess spaces get destroyed.
	for _, sp := range excess {
		outcome := SpaceOutcome{SpaceID: sp.ID, Label: sp.Label}
		sp := sp
		handle := entity.SpaceFromProps(e.gw, &sp)
		if err := handle.Destroy(ctx); err != nil {
			outcome.Err = err
		} else {
			outcome.Destroyed = true
		}
		result.Spaces = append(result.Spaces, outcome)
	}

	// Labels still missing get fresh spaces, created on the first display.
	if len(missing) > 0 {
		first, err := entity.DisplayFromSelector(ctx, e.gw, selector.Index(1))
		if err != nil {
			return result, err
		}
		for _, def := range missing {
			outcome := SpaceOutcome{Label: def.Label}
			sp, err := first.CreateSpace(ctx)
			if err != nil {
				outcome.Err = err
				result.Spaces = append(result.Spaces, outcome)
				continue
			}
			outcome.SpaceID = sp.ID()
			outcome.Created = true
			if err := sp.SetLabel(ctx, def.Label); err != nil {
				outcome.Err = err
			}
			result.Spaces = append(result.Spaces, outcome)
		}
	}

	return result, nil
}

// Prepare is the full convergence pass: make the space set match the
// declaration, then place and order everything.
func (e *Engine) Prepare(ctx context.Context) (*Result, error) {
	converge, err := e.Converge(ctx)
	if err != nil {
		return converge, err
	}
	reconcile, err := e.Reconcile(ctx)
	if reconcile != nil {
		reconcile.Spaces = append(converge.Spaces, reconcile.Spaces...)
		return reconcile, err
	}
	return converge, err
}

// assignLabels gives each unlabeled live space the next unused declared
// label, walking spaces in live arrangement order. When the external
// process restarted, the previous labels are gone and unrecoverable; if the
// surviving spaces are not already in declared order this reassignment is
// wrong in the same way the system always has been. Deliberately so: the
// information needed to do better does not exist.
func (e *Engine) assignLabels(ctx context.Context, result *Result) error {
	spaces, err := e.liveSpaces(ctx)
	if err != nil {
		return err
	}

	held := make(map[string]bool, len(spaces))
	for _, sp := range spaces {
		if sp.Label != "" {
			held[sp.Label] = true
		}
	}

	next := 0
	for _, sp := range spaces {
		if sp.Label != "" {
			continue
		}
		for next < len(e.defs) && held[e.defs[next].Label] {
			next++
		}
		if next >= len(e.defs) {
			break // more spaces than declarations; leave the rest unlabeled
		}
		def := e.defs[next]
		next++
		outcome := SpaceOutcome{SpaceID: sp.ID, Label: def.Label}
		sp := sp
		handle := entity.SpaceFromProps(e.gw, &sp)
		if err := handle.SetLabel(ctx, def.Label); err != nil {
			outcome.Err = err
			logging.Warn().Int("space", sp.ID).Str("label", def.Label).Err(err).Msg("label assignment failed")
		} else {
			outcome.Relabeled = true
		}
		result.Spaces = append(result.Spaces, outcome)
	}
	return nil
}

// liveSpaces returns all spaces in live order: ascending mission-control
// index, which yabai assigns display by display.
func (e *Engine) liveSpaces(ctx context.Context) ([]models.SpaceProps, error) {
	spaces, err := e.res.AllSpaces(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(spaces, func(i, j int) bool { return spaces[i].Index < spaces[j].Index })
	return spaces, nil
}

// clampDisplay applies the overflow policy: a preferred display beyond the
// connected count falls back to the last connected display.
func clampDisplay(preferred, connected int) int {
	if preferred > connected {
		return connected
	}
	if preferred < 1 {
		return 1
	}
	return preferred
}
