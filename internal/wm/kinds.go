package wm

// EntityKind identifies which of yabai's entity domains an operation
// addresses. The kind decides the query flag, the selector grammar, and
// which snapshot type a query produces.
type EntityKind string

const (
	KindWindow  EntityKind = "window"
	KindSpace   EntityKind = "space"
	KindDisplay EntityKind = "display"
)

// QueryFlag returns the yabai --query flag for the kind.
func (k EntityKind) QueryFlag() string {
	switch k {
	case KindWindow:
		return "--windows"
	case KindSpace:
		return "--spaces"
	case KindDisplay:
		return "--displays"
	}
	return ""
}

// SelectorFlag returns the yabai flag that scopes a query to one entity.
func (k EntityKind) SelectorFlag() string {
	switch k {
	case KindWindow:
		return "--window"
	case KindSpace:
		return "--space"
	case KindDisplay:
		return "--display"
	}
	return ""
}

// Valid reports whether k is one of the three known kinds.
func (k EntityKind) Valid() bool {
	return k == KindWindow || k == KindSpace || k == KindDisplay
}
