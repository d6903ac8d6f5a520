package entity

import (
	"context"
	"strconv"

	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/selector"
)

// Window is a stable handle to one window. Window ids are directly usable
// as yabai selectors, so no per-call index lookup is needed.
type Window struct {
	id  int
	gw  gateway.Gateway
	res *selector.Resolver
}

// WindowFromSelector resolves the selector once and captures the id.
func WindowFromSelector(ctx context.Context, gw gateway.Gateway, sel selector.Selector) (*Window, error) {
	res := selector.NewResolver(gw)
	props, err := res.Window(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &Window{id: props.ID, gw: gw, res: res}, nil
}

// WindowFromProps wraps an already-queried snapshot without a query.
func WindowFromProps(gw gateway.Gateway, props *models.WindowProps) *Window {
	return &Window{id: props.ID, gw: gw, res: selector.NewResolver(gw)}
}

// ID returns the durable identifier.
func (w *Window) ID() int { return w.id }

// Props queries the current snapshot of the window, addressed by id.
func (w *Window) Props(ctx context.Context) (*models.WindowProps, error) {
	return w.res.Window(ctx, selector.Index(w.id))
}

// Focus focuses the window.
func (w *Window) Focus(ctx context.Context) error {
	err := w.gw.Do(ctx, "window", "--focus", strconv.Itoa(w.id))
	if isBenign(err, "already focused window") {
		err = nil
	}
	return err
}

// SendToSpace moves the window to the space at the given mission-control
// index.
func (w *Window) SendToSpace(ctx context.Context, spaceIndex int) error {
	logging.Info().Int("window", w.id).Int("space", spaceIndex).Msg("send window to space")
	return w.gw.Do(ctx, "window", strconv.Itoa(w.id), "--space", strconv.Itoa(spaceIndex))
}

// SendToDisplay moves the window to the display at the given arrangement
// index.
func (w *Window) SendToDisplay(ctx context.Context, displayIndex int) error {
	logging.Info().Int("window", w.id).Int("display", displayIndex).Msg("send window to display")
	return w.gw.Do(ctx, "window", strconv.Itoa(w.id), "--display", strconv.Itoa(displayIndex))
}
