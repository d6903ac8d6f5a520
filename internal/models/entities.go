// Package models holds the snapshot records returned by yabai queries.
// A snapshot captures an entity's properties at the moment of one query
// and is never updated afterwards; callers needing fresh state query again.
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Frame is the geometry yabai reports for displays and windows.
type Frame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FormatFrame returns a compact human-readable rendering of the frame.
func (f Frame) FormatFrame() string {
	return fmt.Sprintf("%.0fx%.0f @ (%.0f, %.0f)", f.W, f.H, f.X, f.Y)
}

// SpaceProps is the snapshot of one space. Field names mirror yabai's
// documented output, hyphenated keys included.
type SpaceProps struct {
	ID                 int       `json:"id"`
	UUID               uuid.UUID `json:"uuid"`
	Index              int       `json:"index"`
	Label              string    `json:"label"`
	Type               string    `json:"type"`
	DisplayIndex       int       `json:"display"`
	Windows            []int     `json:"windows"`
	FirstWindow        int       `json:"first-window"`
	LastWindow         int       `json:"last-window"`
	HasFocus           bool      `json:"has-focus"`
	IsVisible          bool      `json:"is-visible"`
	IsNativeFullscreen bool      `json:"is-native-fullscreen"`
}

// DisplayProps is the snapshot of one display.
type DisplayProps struct {
	ID     int       `json:"id"`
	UUID   uuid.UUID `json:"uuid"`
	Index  int       `json:"index"`
	Frame  Frame     `json:"frame"`
	Spaces []int     `json:"spaces"`
}

// WindowProps is the snapshot of one window.
type WindowProps struct {
	ID           int     `json:"id"`
	PID          int     `json:"pid"`
	App          string  `json:"app"`
	Title        string  `json:"title"`
	Frame        Frame   `json:"frame"`
	Role         string  `json:"role"`
	Subrole      string  `json:"subrole"`
	DisplayIndex int     `json:"display"`
	SpaceIndex   int     `json:"space"`
	Level        int     `json:"level"`
	Opacity      float64 `json:"opacity"`
	SplitType    string  `json:"split-type"`
	CanMove      bool    `json:"can-move"`
	CanResize    bool    `json:"can-resize"`
	HasFocus     bool    `json:"has-focus"`
	IsVisible    bool    `json:"is-visible"`
	IsMinimized  bool    `json:"is-minimized"`
	IsHidden     bool    `json:"is-hidden"`
	IsFloating   bool    `json:"is-floating"`
	IsSticky     bool    `json:"is-sticky"`
}
