package generator

import (
	"math/rand/v2"
	"time"
)

// Payload is the record produced on every tick. It is also the JSON object
// streamed to clients.
type Payload struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Random    float64   `json:"random"`
}

// DefaultMessages is the rotation used by the default payload function.
var DefaultMessages = []string{
	"Real-time update from server",
	"System status: All green",
	"New data available",
	"Background process completed",
	"User activity detected",
	"Cache refreshed",
	"Database query executed",
	"API response cached",
}

// PayloadFunc builds the payload for a tick occurring at now.
type PayloadFunc func(now time.Time) Payload

// RandomPayload returns a PayloadFunc that picks a message from messages
// using random and sets Random to a value in [0,1).
// A nil random uses math/rand/v2.
func RandomPayload(messages []string, random func() float64) PayloadFunc {
	if len(messages) == 0 {
		messages = DefaultMessages
	}
	if random == nil {
		random = rand.Float64
	}
	msgs := append([]string(nil), messages...)

	return func(now time.Time) Payload {
		idx := int(random() * float64(len(msgs)))
		if idx >= len(msgs) {
			idx = len(msgs) - 1
		}
		return Payload{
			Timestamp: now.UTC(),
			Message:   msgs[idx],
			Random:    random(),
		}
	}
}
