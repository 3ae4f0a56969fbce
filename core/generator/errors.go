package generator

import "errors"

var (
	// ErrInvalidInterval is returned when the tick interval is not positive.
	ErrInvalidInterval = errors.New("generator: interval must be positive")

	// ErrPublisherNil is returned when New is called without a publisher.
	ErrPublisherNil = errors.New("generator: publisher is nil")
)
