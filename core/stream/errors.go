package stream

import "errors"

var (
	// ErrSessionClosed is returned by Next once the session is closed.
	// It marks a normal end of stream, not a failure.
	ErrSessionClosed = errors.New("stream: session closed")

	// ErrEncode wraps a failure to serialize a single message.
	ErrEncode = errors.New("stream: failed to encode message")
)
