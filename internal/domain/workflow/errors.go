package workflow

import "errors"

var (
	// ErrUnknownPhase is returned when a phase key has no registered content
	// handler. Recoverable: callers render a generic fallback view, but it
	// signals schema drift and should be logged as a warning.
	ErrUnknownPhase = errors.New("unknown phase")

	// ErrMissingHandler is returned by the router constructor when the
	// dispatch table does not cover every registry phase
	ErrMissingHandler = errors.New("phase has no content handler")
)
