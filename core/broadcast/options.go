package broadcast

import (
	"log/slog"
	"time"
)

// DefaultCapacity is the number of messages kept for backlog replay.
const DefaultCapacity = 100

// Option configures a Broadcaster.
type Option func(*options)

type options struct {
	capacity int
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// WithCapacity sets how many recent messages are retained for replay.
// Values below one are rejected by New.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIDGenerator overrides message ID generation. Defaults to UUID v4.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock overrides the clock used to stamp EnqueuedAt.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

// Config holds broadcaster settings loaded from the environment.
type Config struct {
	Capacity int `env:"BROADCAST_QUEUE_CAPACITY" envDefault:"100"`
}

// DefaultConfig returns the default broadcaster configuration.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}
