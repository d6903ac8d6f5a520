// Package entity provides stable handles over the window manager's
// transient addressing. A handle captures an entity's durable numeric id at
// construction and addresses it by id from then on, so the reference
// survives relabeling, moving, and focus changes. Only deletion of the
// target invalidates a handle; operations then fail with wm.ErrNotFound
// rather than silently rebinding to whatever the original selector matches
// now.
package entity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/logging"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/wm"
)

// Space is a stable handle to one space.
type Space struct {
	id  int
	gw  gateway.Gateway
	res *selector.Resolver
}

// SpaceFromSelector resolves the selector once, captures the durable id,
// and discards the selector.
func SpaceFromSelector(ctx context.Context, gw gateway.Gateway, sel selector.Selector) (*Space, error) {
	res := selector.NewResolver(gw)
	props, err := res.Space(ctx, sel)
	if err != nil {
		return nil, err
	}
	return &Space{id: props.ID, gw: gw, res: res}, nil
}

// SpaceFromProps wraps an already-queried snapshot without issuing a query.
func SpaceFromProps(gw gateway.Gateway, props *models.SpaceProps) *Space {
	return &Space{id: props.ID, gw: gw, res: selector.NewResolver(gw)}
}

// ID returns the durable identifier. It never changes for the life of the
// handle.
func (s *Space) ID() int { return s.id }

// Props queries the current snapshot of the space, addressed by durable id.
func (s *Space) Props(ctx context.Context) (*models.SpaceProps, error) {
	all, err := s.res.AllSpaces(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == s.id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: space id %d", wm.ErrNotFound, s.id)
}

// token returns the currently-correct selector token for the space: its
// mission-control index at this instant. Looked up fresh per mutation, since
// the index changes whenever the space or its neighbors move.
func (s *Space) token(ctx context.Context) (string, error) {
	props, err := s.Props(ctx)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(props.Index), nil
}

// Focus focuses the space. Focusing the already-focused space is not an
// error.
func (s *Space) Focus(ctx context.Context) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	err = s.gw.Do(ctx, "space", "--focus", tok)
	if isBenign(err, "already focused space") {
		err = nil
	}
	return err
}

// MoveTo moves the space to the position of the space currently at the
// given mission-control index. Both must be on the same display. Moving a
// space onto itself is not an error.
func (s *Space) MoveTo(ctx context.Context, index int) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	logging.Debug().Int("space", s.id).Int("target", index).Msg("move space")
	err = s.gw.Do(ctx, "space", tok, "--move", strconv.Itoa(index))
	if isBenign(err, "cannot move space to itself") {
		err = nil
	}
	return err
}

// SwapWith swaps the space with the space at the given index.
func (s *Space) SwapWith(ctx context.Context, index int) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	err = s.gw.Do(ctx, "space", tok, "--swap", strconv.Itoa(index))
	if isBenign(err, "cannot swap space with itself") {
		err = nil
	}
	return err
}

// SendToDisplay moves the space to the display with the given arrangement
// index. Sending it to its current display is not an error.
func (s *Space) SendToDisplay(ctx context.Context, displayIndex int) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	logging.Info().Int("space", s.id).Int("display", displayIndex).Msg("send space to display")
	err = s.gw.Do(ctx, "space", tok, "--display", strconv.Itoa(displayIndex))
	if isBenign(err, "already located on the given display") {
		err = nil
	}
	return err
}

// SetLabel relabels the space after enforcing the uniqueness and syntax
// rules. The checks run before any mutation is sent; yabai itself is not
// guaranteed to reject a colliding label, so this is the only enforcement
// point.
func (s *Space) SetLabel(ctx context.Context, label string) error {
	if err := CheckLabel(ctx, s.res, label, s.id); err != nil {
		return err
	}
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	logging.Info().Int("space", s.id).Str("label", label).Msg("relabel space")
	return s.gw.Do(ctx, "space", tok, "--label", label)
}

// Destroy removes the space. The handle is dead afterwards; further
// operations report wm.ErrNotFound.
func (s *Space) Destroy(ctx context.Context) error {
	tok, err := s.token(ctx)
	if err != nil {
		return err
	}
	logging.Info().Int("space", s.id).Msg("destroy space")
	return s.gw.Do(ctx, "space", tok, "--destroy")
}

// isBenign reports whether err is a command rejection whose stderr contains
// the given fragment. yabai reports several no-op conditions as failures;
// the original tooling tolerates them and so do we.
func isBenign(err error, fragment string) bool {
	if err == nil {
		return false
	}
	var cmdErr *gateway.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Stderr, fragment)
}
