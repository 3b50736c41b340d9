package keyframer

import "errors"

// Sentinel errors returned by the public API. All errors produced by this
// package wrap one of these, so callers can classify failures with errors.Is
// regardless of the added context.
var (
	// ErrDuplicateScope is returned when a stylesheet is constructed with a
	// non-global scope id that is already claimed by a live instance.
	ErrDuplicateScope = errors.New("duplicate scope id")

	// ErrUnknownSelector is returned by GetRule for a selector with no
	// stored declaration, including every selector of a purged stylesheet.
	ErrUnknownSelector = errors.New("unknown selector")

	// ErrInvalidWaypoint is returned by AddKeyframes when a waypoint percent
	// falls outside [0, 100] or a waypoint declaration is empty.
	ErrInvalidWaypoint = errors.New("invalid keyframe waypoint")

	// ErrInvalidTrigger is returned by the animate functions for malformed
	// trigger configuration: a missing event name, an unsupported key phase,
	// an empty key filter, or a zero descriptor.
	ErrInvalidTrigger = errors.New("invalid trigger config")

	// ErrInvalidDeclaration is returned when a declaration fails boundary
	// validation: an unknown pseudo or at-rule token under a reserved-prefix
	// key, a nested block deeper than one level, or a value that is neither
	// a string, a number, nor a nested declaration.
	ErrInvalidDeclaration = errors.New("invalid declaration")

	// ErrStylesheetPurged is returned by AddRule on a purged instance.
	// GetRule on a purged instance reports ErrUnknownSelector instead,
	// since the rule store is empty.
	ErrStylesheetPurged = errors.New("stylesheet purged")
)
