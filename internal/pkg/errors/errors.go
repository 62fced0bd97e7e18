package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptySeries signals a trend calculation invoked with zero points.
	ErrEmptySeries = errors.New("empty series")
	// ErrNoTargetDefined signals that no goal layer covers the requested date.
	ErrNoTargetDefined = errors.New("no target defined")
)
