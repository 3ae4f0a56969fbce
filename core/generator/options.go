package generator

import (
	"log/slog"
	"time"
)

// Option configures a Generator.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	payload  PayloadFunc
	messages []string
	random   func() float64
	now      func() time.Time
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPayloadFunc replaces payload synthesis entirely.
// It takes precedence over WithMessages and WithRand.
func WithPayloadFunc(fn PayloadFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.payload = fn
		}
	}
}

// WithMessages sets the rotation used by the default payload function.
func WithMessages(messages ...string) Option {
	return func(o *options) {
		if len(messages) > 0 {
			o.messages = messages
		}
	}
}

// WithRand sets the random source used by the default payload function.
func WithRand(fn func() float64) Option {
	return func(o *options) {
		if fn != nil {
			o.random = fn
		}
	}
}

// WithClock sets the clock passed to the payload function.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}

// Config holds generator settings loaded from the environment.
type Config struct {
	Interval  time.Duration `env:"GENERATOR_INTERVAL" envDefault:"1s"`
	AutoStart bool          `env:"GENERATOR_AUTOSTART" envDefault:"true"`
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Interval:  DefaultInterval,
		AutoStart: true,
	}
}
