package entity

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// Display is a stable handle to one display. yabai addresses displays by
// arrangement index, which changes when monitors are plugged or unplugged;
// the handle stores the durable display id and looks the index up per call.
type Display struct {
	id  int
	gw  gateway.Gateway
	res *selector.Resolver
}

// DisplayFromSelector resolves the selector once and captures the id.
func DisplayFromSelector(ctx context.Context, gw gateway.Gateway, sel selector.Selector) (*Display, error) {
	res := selector.NewResolver(gw)
	props, err := res.Display(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &Display{id: props.ID, gw: gw, res: res}, nil
}

// DisplayFromProps wraps an already-queried snapshot without a query.
func DisplayFromProps(gw gateway.Gateway, props *models.DisplayProps) *Display {
	return &Display{id: props.ID, gw: gw, res: selector.NewResolver(gw)}
}

// ID returns the durable identifier.
func (d *Display) ID() int { return d.id }

// Props queries the current snapshot of the display.
func (d *Display) Props(ctx context.Context) (*models.DisplayProps, error) {
	all, err := d.res.AllDisplays(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == d.id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: display id %d", wm.ErrNotFound, d.id)
}

// Spaces returns handles for the member spaces, in live arrangement order.
func (d *Display) Spaces(ctx context.Context) ([]*Space, error) {
	props, err := d.Props(ctx)
	if err != nil {
		return nil, err
	}
	all, err := d.res.AllSpaces(ctx)
	if err != nil {
		return nil, err
	}
	byIndex := make(map[int]*models.SpaceProps, len(all))
	for i := range all {
		byIndex[all[i].Index] = &all[i]
	}
	handles := make([]*Space, 0, len(props.Spaces))
	for _, idx := range props.Spaces {
		sp, ok := byIndex[idx]
		if !ok {
			return nil, fmt.Errorf("%w: space index %d listed by display %d", wm.ErrNotFound, idx, d.id)
		}
		handles = append(handles, SpaceFromProps(d.gw, sp))
	}
	return handles, nil
}

// Focus focuses the display.
func (d *Display) Focus(ctx context.Context) error {
	props, err := d.Props(ctx)
	if err != nil {
		return err
	}
	err = d.gw.Do(ctx, "display", "--focus", strconv.Itoa(props.Index))
	if isBenign(err, "already focused display") {
		err = nil
	}
	return err
}

// CreateSpace creates a new space on the display and returns a handle to
// it. The new space lands last in the display's arrangement.
func (d *Display) CreateSpace(ctx context.Context) (*Space, error) {
	props, err := d.Props(ctx)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("display", d.id).Msg("create space")
	if err := d.gw.Do(ctx, "space", "--create", strconv.Itoa(props.Index)); err != nil {
		return nil, err
	}
	props, err = d.Props(ctx)
	if err != nil {
		return nil, err
	}
	if len(props.Spaces) == 0 {
		return nil, fmt.Errorf("%w: display %d reports no spaces after create", wm.ErrTransport, d.id)
	}
	lastIndex := props.Spaces[len(props.Spaces)-1]
	return SpaceFromSelector(ctx, d.gw, selector.Index(lastIndex))
}
