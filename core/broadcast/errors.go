package broadcast

import "errors"

var (
	// ErrInvalidCapacity is returned when the backlog capacity is below one.
	ErrInvalidCapacity = errors.New("broadcast: invalid queue capacity")

	// ErrHandlerPanic wraps a panic recovered from a subscriber handler.
	ErrHandlerPanic = errors.New("broadcast: subscriber handler panicked")
)
