// Package reconcile drives live window-manager state toward the declared
// layout. The external system gives no ordering guarantees across
// operations, so everything here follows a re-query-after-each-mutation
// discipline: observe, issue one command, observe again.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yourusername/yabactl/internal/entity"
	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// Sort restores ascending-label order among the spaces of one display using
// relative moves only; yabai has no absolute index assignment. Spaces with
// empty labels sort last and keep their live relative order within this
// pass.
//
// The loop finds the first position where the live sequence diverges from
// the desired one, moves the space that belongs there, and re-queries before
// deciding anything else, because a single move is not guaranteed to leave
// the rest of the order intact. With a well-behaved window manager this
// issues at most one move per member. A pass that makes no progress stops
// with wm.ErrUnreconcilable; the re-query budget of n² guards against an
// external system that keeps scrambling, failing with wm.ErrReconcileTimeout.
//
// Returns the number of move commands issued, which is also meaningful on
// error: the live order may be partially improved.
func Sort(ctx context.Context, gw gateway.Gateway, display *entity.Display) (int, error) {
	moves := 0

	members, err := liveMembers(ctx, gw, display)
	if err != nil {
		return moves, err
	}
	n := len(members)
	if n < 2 {
		return moves, nil
	}

	budget := n * n
	lastDivergence := -1

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if members, err = liveMembers(ctx, gw, display); err != nil {
				return moves, err
			}
		}

		desired := desiredOrder(members)
		i := firstDivergence(members, desired)
		if i < 0 {
			return moves, nil
		}

		if i <= lastDivergence {
			return moves, fmt.Errorf("%w: no progress at position %d of display %d", wm.ErrUnreconcilable, i, display.ID())
		}
		lastDivergence = i

		if attempt >= budget {
			return moves, fmt.Errorf("%w: display %d still unsorted after %d re-queries", wm.ErrReconcileTimeout, display.ID(), attempt)
		}

		// The space that belongs at position i moves to the index currently
		// occupying that position.
		misplaced := entity.SpaceFromProps(gw, &desired[i])
		logging.Debug().
			Int("display", display.ID()).
			Str("label", desired[i].Label).
			Int("position", members[i].Index).
			Msg("ordering move")
		if err := misplaced.MoveTo(ctx, members[i].Index); err != nil {
			if errors.Is(err, wm.ErrTransport) {
				return moves, err
			}
			return moves, fmt.Errorf("%w: moving space %q: %v", wm.ErrUnreconcilable, desired[i].Label, err)
		}
		moves++
	}
}

// CheckSorted reports whether the display's spaces are already in the
// desired order. Issues queries only, never a mutation.
func CheckSorted(ctx context.Context, gw gateway.Gateway, display *entity.Display) (bool, error) {
	members, err := liveMembers(ctx, gw, display)
	if err != nil {
		return false, err
	}
	return firstDivergence(members, desiredOrder(members)) < 0, nil
}

// liveMembers returns the display's member spaces in live arrangement
// order, queried fresh.
func liveMembers(ctx context.Context, gw gateway.Gateway, display *entity.Display) ([]models.SpaceProps, error) {
	props, err := display.Props(ctx)
	if err != nil {
		return nil, err
	}
	all, err := selector.NewResolver(gw).AllSpaces(ctx)
	if err != nil {
		return nil, err
	}
	var members []models.SpaceProps
	for _, sp := range all {
		if sp.DisplayIndex == props.Index {
			members = append(members, sp)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Index < members[j].Index })
	return members, nil
}

// desiredOrder returns the members in ascending label order, empty labels
// last. The stable sort keeps empty-labeled spaces in their live relative
// order; no better tie-break is knowable from the label alone.
func desiredOrder(members []models.SpaceProps) []models.SpaceProps {
	desired := make([]models.SpaceProps, len(members))
	copy(desired, members)
	sort.SliceStable(desired, func(i, j int) bool {
		a, b := desired[i].Label, desired[j].Label
		if (a == "") != (b == "") {
			return b == ""
		}
		return a < b
	})
	return desired
}

// firstDivergence returns the first position where live and desired
// disagree, comparing by durable id, or -1 if they match.
func firstDivergence(live, desired []models.SpaceProps) int {
	for i := range live {
		if live[i].ID != desired[i].ID {
			return i
		}
	}
	return -1
}
