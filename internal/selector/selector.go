// Package selector models yabai's transient addressing tokens and resolves
// them into snapshots. A selector is only trustworthy for the instant of one
// query; nothing in this package stores one beyond a single resolution.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/yabactl/internal/wm"
)

type selType int

const (
	typeCurrent selType = iota // the focused entity, yabai's implicit default
	typeLabel
	typeIndex
	typeKeyword
)

// Keywords accepted for space and window selectors.
var baseKeywords = []string{"prev", "next", "first", "last", "recent", "mouse"}

// Additional direction keywords, valid for display selectors only.
var directionKeywords = []string{"north", "south", "east", "west"}

// Selector is a tagged single-token address for one entity. Construct via
// Current, Label, Index, Keyword, or Parse; the zero value means "current".
type Selector struct {
	typ   selType
	value string
}

// Current addresses the focused entity of a kind.
func Current() Selector { return Selector{typ: typeCurrent} }

// Label addresses a space by its unique label.
func Label(label string) Selector { return Selector{typ: typeLabel, value: label} }

// Index addresses an entity by its 1-based arrangement index.
func Index(i int) Selector { return Selector{typ: typeIndex, value: strconv.Itoa(i)} }

// Keyword addresses an entity by a positional keyword (prev, next, ...).
func Keyword(kw string) Selector { return Selector{typ: typeKeyword, value: kw} }

// Parse interprets a raw CLI token for the given kind: empty means current,
// digits mean index, known keywords stay keywords, anything else is a label.
func Parse(kind wm.EntityKind, raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Current(), nil
	case isDigits(raw):
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Selector{}, fmt.Errorf("index selector must be a positive integer, got %q", raw)
		}
		return Index(n), nil
	case IsKeyword(kind, raw):
		return Keyword(raw), nil
	default:
		sel := Label(raw)
		if err := sel.ValidateFor(kind); err != nil {
			return Selector{}, err
		}
		return sel, nil
	}
}

// Token returns the literal token sent to yabai. Empty for current, since
// yabai treats an omitted selector as the focused entity.
func (s Selector) Token() string { return s.value }

// IsCurrent reports whether the selector addresses the focused entity.
func (s Selector) IsCurrent() bool { return s.typ == typeCurrent }

// IsLabel reports whether the selector is a label.
func (s Selector) IsLabel() bool { return s.typ == typeLabel }

func (s Selector) String() string {
	if s.typ == typeCurrent {
		return "<current>"
	}
	return s.value
}

// ValidateFor checks the selector is syntactically valid for the kind.
// Labels exist only on spaces; direction keywords only on displays.
func (s Selector) ValidateFor(kind wm.EntityKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	switch s.typ {
	case typeCurrent, typeIndex:
		return nil
	case typeLabel:
		if kind != wm.KindSpace {
			return fmt.Errorf("label selector %q not valid for %s", s.value, kind)
		}
		if s.value == "" {
			return fmt.Errorf("label selector cannot be empty")
		}
		if IsKeyword(kind, s.value) || isDigits(s.value) {
			return fmt.Errorf("label selector %q collides with a reserved token", s.value)
		}
		return nil
	case typeKeyword:
		if !IsKeyword(kind, s.value) {
			return fmt.Errorf("keyword %q not valid for %s", s.value, kind)
		}
		return nil
	}
	return fmt.Errorf("malformed selector")
}

// IsKeyword reports whether tok is a reserved selector keyword for the kind.
func IsKeyword(kind wm.EntityKind, tok string) bool {
	tok = strings.ToLower(tok)
	for _, kw := range baseKeywords {
		if tok == kw {
			return true
		}
	}
	if kind == wm.KindDisplay {
		for _, kw := range directionKeywords {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

// ReservedTokens returns every token a space label must not use: selector
// keywords of any kind, since a label doubling as a keyword would make the
// label unusable as an address.
func ReservedTokens() []string {
	out := make([]string, 0, len(baseKeywords)+len(directionKeywords))
	out = append(out, baseKeywords...)
	out = append(out, directionKeywords...)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
