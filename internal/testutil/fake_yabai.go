// Package testutil provides an in-memory stand-in for the yabai process.
// It models the parts of the message interface this project drives —
// queries, space moves, labeling, display placement — including the
// inconvenient behaviors the reconciliation layer exists to absorb: indices
// shift on every move, labels vanish on destroy, and sending a space to a
// display appends it at the end regardless of label order.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/yabactl/internal/gateway"
	"github.com/yourusername/yabactl/internal/models"
	"github.com/yourusername/yabactl/internal/wm"
)

// FakeSpace is one simulated space.
type FakeSpace struct {
	ID    int
	UUID  uuid.UUID
	Label string
}

// FakeDisplay is one simulated display holding spaces in arrangement order.
type FakeDisplay struct {
	ID     int
	UUID   uuid.UUID
	Spaces []*FakeSpace
}

// FakeWindow is one simulated window.
type FakeWindow struct {
	ID      int
	App     string
	Title   string
	SpaceID int
}

// FakeYabai implements gateway.Gateway against in-memory state.
type FakeYabai struct {
	mu sync.Mutex

	displays []*FakeDisplay
	windows  []*FakeWindow
	nextID   int

	focusedSpace  int
	focusedWindow int

	// Counters and logs for assertions.
	QueryCount int
	DoCount    int
	MoveCount  int
	DoLog      []string

	// RejectMove makes space --move commands fail for spaces with the given
	// label.
	RejectMove func(label string) bool

	// RejectDisplayMove makes space --display commands fail for the label.
	RejectDisplayMove func(label string) bool

	// AfterMove runs after every successful space --move, letting a test
	// scramble state the way a misbehaving window manager would.
	AfterMove func(f *FakeYabai)
}

// NewFakeYabai returns an empty simulation. Add at least one display before
// use.
func NewFakeYabai() *FakeYabai {
	return &FakeYabai{nextID: 1}
}

// AddDisplay appends a display to the arrangement.
func (f *FakeYabai) AddDisplay() *FakeDisplay {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &FakeDisplay{ID: f.nextID, UUID: uuid.New()}
	f.nextID++
	f.displays = append(f.displays, d)
	return d
}

// AddSpace appends a space to the display. The first space added becomes
// focused.
func (f *FakeYabai) AddSpace(d *FakeDisplay, label string) *FakeSpace {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp := &FakeSpace{ID: f.nextID, UUID: uuid.New(), Label: label}
	f.nextID++
	d.Spaces = append(d.Spaces, sp)
	if f.focusedSpace == 0 {
		f.focusedSpace = sp.ID
	}
	return sp
}

// AddWindow places a window on the given space. The first window added
// becomes focused.
func (f *FakeYabai) AddWindow(sp *FakeSpace, app, title string) *FakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &FakeWindow{ID: f.nextID, App: app, Title: title, SpaceID: sp.ID}
	f.nextID++
	f.windows = append(f.windows, w)
	if f.focusedWindow == 0 {
		f.focusedWindow = w.ID
	}
	return w
}

// Labels returns the labels on the display in current arrangement order.
func (f *FakeYabai) Labels(d *FakeDisplay) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(d.Spaces))
	for i, sp := range d.Spaces {
		out[i] = sp.Label
	}
	return out
}

// FocusSpace marks the space as focused without going through a command.
func (f *FakeYabai) FocusSpace(sp *FakeSpace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focusedSpace = sp.ID
}

// SetLabel rewrites a label directly, simulating an external relabel.
func (f *FakeYabai) SetLabel(sp *FakeSpace, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp.Label = label
}

// Query implements gateway.Gateway.
func (f *FakeYabai) Query(ctx context.Context, args ...string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.QueryCount++

	if len(args) < 2 || args[0] != "query" {
		return nil, fmt.Errorf("%w: unsupported query %v", wm.ErrTransport, args)
	}

	sel := ""
	hasSel := len(args) >= 3
	if len(args) >= 4 {
		sel = args[3]
	}

	switch args[1] {
	case "--spaces":
		if !hasSel {
			return marshal(f.allSpaces())
		}
		props, err := f.oneSpace(sel, args)
		if err != nil {
			return nil, err
		}
		return marshal(props)
	case "--displays":
		if !hasSel {
			return marshal(f.allDisplays())
		}
		props, err := f.oneDisplay(sel, args)
		if err != nil {
			return nil, err
		}
		return marshal(props)
	case "--windows":
		if !hasSel {
			return marshal(f.allWindows())
		}
		props, err := f.oneWindow(sel, args)
		if err != nil {
			return nil, err
		}
		return marshal(props)
	}
	return nil, fmt.Errorf("%w: unsupported query %v", wm.ErrTransport, args)
}

// Do implements gateway.Gateway.
func (f *FakeYabai) Do(ctx context.Context, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DoCount++
	f.DoLog = append(f.DoLog, strings.Join(args, " "))

	if len(args) == 0 {
		return fmt.Errorf("%w: empty command", wm.ErrTransport)
	}
	switch args[0] {
	case "space":
		return f.doSpace(args)
	case "window":
		return f.doWindow(args)
	case "display":
		return f.doDisplay(args)
	}
	return fmt.Errorf("%w: unsupported command %v", wm.ErrTransport, args)
}

// --- command handling

func (f *FakeYabai) doSpace(args []string) error {
	// space --focus <sel> | space --create <sel> | space <sel> --verb <arg...>
	if len(args) >= 3 && args[1] == "--focus" {
		sp, _, _, err := f.spaceByToken(args[2], args)
		if err != nil {
			return err
		}
		if f.focusedSpace == sp.ID {
			return gateway.NewCommandError(args, "cannot focus an already focused space")
		}
		f.focusedSpace = sp.ID
		return nil
	}
	if len(args) >= 3 && args[1] == "--create" {
		d, err := f.displayByToken(args[2], args)
		if err != nil {
			return err
		}
		sp := &FakeSpace{ID: f.nextID, UUID: uuid.New()}
		f.nextID++
		d.Spaces = append(d.Spaces, sp)
		return nil
	}

	if len(args) < 3 {
		return fmt.Errorf("%w: malformed space command %v", wm.ErrTransport, args)
	}
	sp, d, pos, err := f.spaceByToken(args[1], args)
	if err != nil {
		return err
	}

	switch args[2] {
	case "--move":
		if f.RejectMove != nil && f.RejectMove(sp.Label) {
			return gateway.NewCommandError(args, "could not move space")
		}
		target, td, tpos, err := f.spaceByToken(args[3], args)
		if err != nil {
			return err
		}
		if target == sp {
			return gateway.NewCommandError(args, "cannot move space to itself")
		}
		if td != d {
			return gateway.NewCommandError(args, "cannot move space to another display")
		}
		f.MoveCount++
		d.Spaces = append(d.Spaces[:pos], d.Spaces[pos+1:]...)
		d.Spaces = append(d.Spaces[:tpos], append([]*FakeSpace{sp}, d.Spaces[tpos:]...)...)
		if f.AfterMove != nil {
			f.AfterMove(f)
		}
		return nil
	case "--swap":
		target, td, tpos, err := f.spaceByToken(args[3], args)
		if err != nil {
			return err
		}
		if target == sp {
			return gateway.NewCommandError(args, "cannot swap space with itself")
		}
		if td != d {
			return gateway.NewCommandError(args, "cannot swap space with another display")
		}
		d.Spaces[pos], td.Spaces[tpos] = target, sp
		return nil
	case "--display":
		if f.RejectDisplayMove != nil && f.RejectDisplayMove(sp.Label) {
			return gateway.NewCommandError(args, "could not send space to display")
		}
		td, err := f.displayByToken(args[3], args)
		if err != nil {
			return err
		}
		if td == d {
			return gateway.NewCommandError(args, "space is already located on the given display")
		}
		if len(d.Spaces) == 1 {
			return gateway.NewCommandError(args, "cannot move the last space of a display")
		}
		d.Spaces = append(d.Spaces[:pos], d.Spaces[pos+1:]...)
		td.Spaces = append(td.Spaces, sp)
		return nil
	case "--label":
		// No uniqueness enforcement here on purpose; yabai does not
		// reliably provide it either.
		sp.Label = args[3]
		return nil
	case "--destroy":
		if len(d.Spaces) == 1 {
			return gateway.NewCommandError(args, "cannot destroy the last space of a display")
		}
		d.Spaces = append(d.Spaces[:pos], d.Spaces[pos+1:]...)
		return nil
	}
	return fmt.Errorf("%w: unsupported space command %v", wm.ErrTransport, args)
}

func (f *FakeYabai) doWindow(args []string) error {
	if len(args) >= 3 && args[1] == "--focus" {
		w, err := f.windowByToken(args[2], args)
		if err != nil {
			return err
		}
		f.focusedWindow = w.ID
		return nil
	}
	if len(args) < 4 {
		return fmt.Errorf("%w: malformed window command %v", wm.ErrTransport, args)
	}
	w, err := f.windowByToken(args[1], args)
	if err != nil {
		return err
	}
	switch args[2] {
	case "--space":
		sp, _, _, err := f.spaceByToken(args[3], args)
		if err != nil {
			return err
		}
		w.SpaceID = sp.ID
		return nil
	case "--display":
		d, err := f.displayByToken(args[3], args)
		if err != nil {
			return err
		}
		if len(d.Spaces) == 0 {
			return gateway.NewCommandError(args, "display has no spaces")
		}
		w.SpaceID = d.Spaces[0].ID
		return nil
	}
	return fmt.Errorf("%w: unsupported window command %v", wm.ErrTransport, args)
}

func (f *FakeYabai) doDisplay(args []string) error {
	if len(args) >= 3 && args[1] == "--focus" {
		if _, err := f.displayByToken(args[2], args); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: unsupported display command %v", wm.ErrTransport, args)
}

// --- lookup helpers

// spaceByToken resolves a mission-control index token (or empty for the
// focused space) to the space, its display, and its position there.
func (f *FakeYabai) spaceByToken(tok string, args []string) (*FakeSpace, *FakeDisplay, int, error) {
	index := 0
	for _, d := range f.displays {
		for pos, sp := range d.Spaces {
			index++
			if tok == "" {
				if sp.ID == f.focusedSpace {
					return sp, d, pos, nil
				}
				continue
			}
			if n, err := strconv.Atoi(tok); err == nil && n == index {
				return sp, d, pos, nil
			}
		}
	}
	return nil, nil, 0, gateway.NewCommandError(args, fmt.Sprintf("could not locate space %q", tok))
}

func (f *FakeYabai) displayByToken(tok string, args []string) (*FakeDisplay, error) {
	if tok == "" {
		// Focused display: the one holding the focused space.
		for _, d := range f.displays {
			for _, sp := range d.Spaces {
				if sp.ID == f.focusedSpace {
					return d, nil
				}
			}
		}
		return nil, gateway.NewCommandError(args, "could not locate the focused display")
	}
	if n, err := strconv.Atoi(tok); err == nil && n >= 1 && n <= len(f.displays) {
		return f.displays[n-1], nil
	}
	return nil, gateway.NewCommandError(args, fmt.Sprintf("could not locate display %q", tok))
}

func (f *FakeYabai) windowByToken(tok string, args []string) (*FakeWindow, error) {
	if tok == "" {
		tok = strconv.Itoa(f.focusedWindow)
	}
	for _, w := range f.windows {
		if strconv.Itoa(w.ID) == tok {
			return w, nil
		}
	}
	return nil, gateway.NewCommandError(args, fmt.Sprintf("could not locate window %q", tok))
}

// --- snapshot building

func (f *FakeYabai) allSpaces() []models.SpaceProps {
	var out []models.SpaceProps
	index := 0
	for di, d := range f.displays {
		for _, sp := range d.Spaces {
			index++
			out = append(out, f.spaceProps(sp, di+1, index))
		}
	}
	return out
}

func (f *FakeYabai) spaceProps(sp *FakeSpace, displayIndex, index int) models.SpaceProps {
	var windows []int
	for _, w := range f.windows {
		if w.SpaceID == sp.ID {
			windows = append(windows, w.ID)
		}
	}
	return models.SpaceProps{
		ID:           sp.ID,
		UUID:         sp.UUID,
		Index:        index,
		Label:        sp.Label,
		Type:         "bsp",
		DisplayIndex: displayIndex,
		Windows:      windows,
		HasFocus:     sp.ID == f.focusedSpace,
		IsVisible:    sp.ID == f.focusedSpace,
	}
}

func (f *FakeYabai) oneSpace(tok string, args []string) (models.SpaceProps, error) {
	sp, _, _, err := f.spaceByToken(tok, args)
	if err != nil {
		return models.SpaceProps{}, err
	}
	for _, props := range f.allSpaces() {
		if props.ID == sp.ID {
			return props, nil
		}
	}
	return models.SpaceProps{}, gateway.NewCommandError(args, "could not locate space")
}

func (f *FakeYabai) allDisplays() []models.DisplayProps {
	var out []models.DisplayProps
	index := 0
	for di, d := range f.displays {
		var spaces []int
		for range d.Spaces {
			index++
			spaces = append(spaces, index)
		}
		out = append(out, models.DisplayProps{
			ID:     d.ID,
			UUID:   d.UUID,
			Index:  di + 1,
			Frame:  models.Frame{X: float64(di) * 1440, W: 1440, H: 900},
			Spaces: spaces,
		})
	}
	return out
}

func (f *FakeYabai) oneDisplay(tok string, args []string) (models.DisplayProps, error) {
	d, err := f.displayByToken(tok, args)
	if err != nil {
		return models.DisplayProps{}, err
	}
	for _, props := range f.allDisplays() {
		if props.ID == d.ID {
			return props, nil
		}
	}
	return models.DisplayProps{}, gateway.NewCommandError(args, "could not locate display")
}

func (f *FakeYabai) allWindows() []models.WindowProps {
	var out []models.WindowProps
	for _, w := range f.windows {
		out = append(out, f.windowProps(w))
	}
	return out
}

func (f *FakeYabai) windowProps(w *FakeWindow) models.WindowProps {
	spaceIndex, displayIndex := 0, 0
	index := 0
	for di, d := range f.displays {
		for _, sp := range d.Spaces {
			index++
			if sp.ID == w.SpaceID {
				spaceIndex, displayIndex = index, di+1
			}
		}
	}
	return models.WindowProps{
		ID:           w.ID,
		PID:          1000 + w.ID,
		App:          w.App,
		Title:        w.Title,
		Frame:        models.Frame{W: 800, H: 600},
		DisplayIndex: displayIndex,
		SpaceIndex:   spaceIndex,
		HasFocus:     w.ID == f.focusedWindow,
		IsVisible:    true,
	}
}

func (f *FakeYabai) oneWindow(tok string, args []string) (models.WindowProps, error) {
	w, err := f.windowByToken(tok, args)
	if err != nil {
		return models.WindowProps{}, err
	}
	return f.windowProps(w), nil
}

func marshal(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wm.ErrTransport, err)
	}
	return json.RawMessage(data), nil
}
