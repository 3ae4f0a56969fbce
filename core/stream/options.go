package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/livefeed/core/logger"
)

const (
	// DefaultBacklog is the number of recent messages replayed to a new client.
	DefaultBacklog = 10

	// DefaultKeepAlive is the idle interval after which a keepalive is sent.
	DefaultKeepAlive = 30 * time.Second

	wsWriteWait = 10 * time.Second
)

// Config holds transport settings loaded from the environment.
type Config struct {
	Backlog   int           `env:"STREAM_BACKLOG_SIZE" envDefault:"10"`
	KeepAlive time.Duration `env:"STREAM_KEEPALIVE" envDefault:"30s"`
	// Reconnect is the SSE retry hint in milliseconds. Zero omits it.
	Reconnect int `env:"STREAM_RECONNECT_MS" envDefault:"0"`
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		Backlog:   DefaultBacklog,
		KeepAlive: DefaultKeepAlive,
	}
}

// Options converts the config to transport options.
// A non-positive KeepAlive disables keepalives.
func (c Config) Options() []Option {
	opts := []Option{WithBacklog(c.Backlog)}
	if c.KeepAlive > 0 {
		opts = append(opts, WithKeepAlive(c.KeepAlive))
	} else {
		opts = append(opts, WithoutKeepAlive())
	}
	if c.Reconnect > 0 {
		opts = append(opts, WithReconnectTime(c.Reconnect))
	}
	return opts
}

type options struct {
	backlog     int
	keepAlive   time.Duration
	noKeepAlive bool
	eventName   string
	eventIDs    bool
	reconnect   int
	logger      *slog.Logger
	encode      func(any) ([]byte, error)
	checkOrigin func(*http.Request) bool
}

// Option configures the SSE and WebSocket transports.
type Option func(*options)

// WithBacklog sets how many recent messages a new client receives first.
func WithBacklog(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.backlog = n
		}
	}
}

// WithKeepAlive sets the keepalive interval.
func WithKeepAlive(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.keepAlive = d
			o.noKeepAlive = false
		}
	}
}

// WithoutKeepAlive disables keepalive comments and pings.
func WithoutKeepAlive() Option {
	return func(o *options) {
		o.noKeepAlive = true
	}
}

// WithEventName adds an "event:" line to every SSE event.
func WithEventName(name string) Option {
	return func(o *options) {
		o.eventName = name
	}
}

// WithEventIDs adds an "id:" line carrying the message ID to every SSE event.
func WithEventIDs() Option {
	return func(o *options) {
		o.eventIDs = true
	}
}

// WithReconnectTime sets the SSE client reconnection delay in milliseconds.
func WithReconnectTime(milliseconds int) Option {
	return func(o *options) {
		o.reconnect = milliseconds
	}
}

// WithLogger sets the transport logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEncoder replaces JSON as the payload encoding. T must match the
// stream's payload type; a mismatch fails every encode.
func WithEncoder[T any](fn func(T) ([]byte, error)) Option {
	return func(o *options) {
		if fn == nil {
			return
		}
		o.encode = func(v any) ([]byte, error) {
			t, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("%w: encoder expects %T, got %T", ErrEncode, t, v)
			}
			return fn(t)
		}
	}
}

// WithCheckOrigin sets the WebSocket origin check. By default only
// same-origin upgrades are accepted.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(o *options) {
		o.checkOrigin = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		backlog:   DefaultBacklog,
		keepAlive: DefaultKeepAlive,
		logger:    logger.Discard(),
		encode:    json.Marshal,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) keepAliveInterval() time.Duration {
	if o.noKeepAlive {
		return 0
	}
	return o.keepAlive
}

// encodeError wraps err with ErrEncode unless it already is one.
func encodeError(err error) error {
	if errors.Is(err, ErrEncode) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEncode, err)
}
