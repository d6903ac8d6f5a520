package reconcile

import (
	"context"
	"fmt"

	"github.com/yourusername/yabactl/internal/entity"
	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// MoveSpaceToDisplay sends a space to another display and restores label
// order there. Moving the last space off a display is refused up front:
// yabai cannot leave a display empty and the failure mode is confusing.
// Returns the number of ordering moves issued on the target display.
func MoveSpaceToDisplay(ctx context.Context, gw gateway.Gateway, space *entity.Space, display *entity.Display) (int, error) {
	spaceProps, err := space.Props(ctx)
	if err != nil {
		return 0, err
	}
	displayProps, err := display.Props(ctx)
	if err != nil {
		return 0, err
	}

	siblings, err := countSpacesOnDisplay(ctx, gw, spaceProps.DisplayIndex)
	if err != nil {
		return 0, err
	}
	if siblings <= 1 {
		return 0, fmt.Errorf("%w: space %d is the last space on display %d", wm.ErrRejected, space.ID(), spaceProps.DisplayIndex)
	}

	if err := space.SendToDisplay(ctx, displayProps.Index); err != nil {
		return 0, err
	}
	return Sort(ctx, gw, display)
}

func countSpacesOnDisplay(ctx context.Context, gw gateway.Gateway, displayIndex int) (int, error) {
	all, err := selector.NewResolver(gw).AllSpaces(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, sp := range all {
		if sp.DisplayIndex == displayIndex {
			n++
		}
	}
	return n, nil
}
