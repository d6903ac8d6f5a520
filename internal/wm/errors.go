package wm

import "errors"

// Error taxonomy for operations against the external window manager.
// Callers match with errors.Is; wrapped messages carry the entity detail.
var (
	// ErrTransport indicates the yabai process could not be reached or its
	// response could not be parsed. Never retried internally.
	ErrTransport = errors.New("transport failure")

	// ErrNotFound indicates a selector or durable identifier no longer
	// resolves to a live entity.
	ErrNotFound = errors.New("entity not found")

	// ErrAmbiguous indicates a label selector matched more than one live
	// entity. Labels are supposed to be unique; this means external state
	// has drifted from that assumption.
	ErrAmbiguous = errors.New("selector is ambiguous")

	// ErrRejected indicates yabai accepted the request but declined to
	// perform the mutation.
	ErrRejected = errors.New("mutation rejected")

	// ErrInvalidLabel indicates a candidate label failed the uniqueness or
	// syntax checks before any mutation was sent.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrInvalidConfig indicates the declared space definitions violate a
	// precondition (duplicate or empty labels, bad display index).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnreconcilable indicates a sort pass completed without making
	// progress toward the desired order. Live state may still be partially
	// improved.
	ErrUnreconcilable = errors.New("ordering not reconcilable")

	// ErrReconcileTimeout indicates the sort loop hit its re-query bound
	// before converging.
	ErrReconcileTimeout = errors.New("reconcile attempt budget exhausted")
)
