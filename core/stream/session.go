package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/livefeed/core/broadcast"
)

// State is the lifecycle phase of a Session.
type State int32

const (
	StateConnecting State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Source is the subscription side of a broadcaster.
// *broadcast.Broadcaster[T] satisfies it.
type Source[T any] interface {
	SubscribeWithBacklog(n int, h broadcast.Handler[T]) ([]broadcast.Message[T], broadcast.Unsubscribe)
}

// Session adapts one subscriber connection to a pull-based stream.
// Backlog messages come first, followed by live messages in publish order.
// Messages are buffered per session without limit, so a session never drops
// or reorders what it received.
type Session[T any] struct {
	id    string
	state atomic.Int32

	mu      sync.Mutex
	pending []broadcast.Message[T]
	notify  chan struct{}

	closed      chan struct{}
	closeOnce   sync.Once
	unsubscribe broadcast.Unsubscribe

	delivered atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	id string
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(o *sessionOptions) {
		o.id = id
	}
}

// Open subscribes to src and queues up to backlog recent messages ahead of
// live ones. The caller must Close the session on every exit path.
func Open[T any](src Source[T], backlog int, opts ...SessionOption) *Session[T] {
	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	s := &Session[T]{
		id:     o.id,
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	s.state.Store(int32(StateConnecting))

	recent, unsub := src.SubscribeWithBacklog(backlog, s.push)

	s.mu.Lock()
	s.unsubscribe = unsub
	// Live messages may already be queued; the backlog precedes them.
	s.pending = append(recent, s.pending...)
	s.mu.Unlock()

	s.state.Store(int32(StateStreaming))
	s.signal()

	return s
}

// ID returns the session identifier.
func (s *Session[T]) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session[T]) State() State {
	return State(s.state.Load())
}

// Delivered returns how many messages Next has handed out.
func (s *Session[T]) Delivered() int64 {
	return s.delivered.Load()
}

// Next blocks until a message is available, the session closes, or ctx ends.
// After Close it returns ErrSessionClosed even if messages were pending.
func (s *Session[T]) Next(ctx context.Context) (broadcast.Message[T], error) {
	var zero broadcast.Message[T]

	for {
		if s.State() == StateClosed {
			return zero, ErrSessionClosed
		}

		s.mu.Lock()
		if len(s.pending) > 0 {
			msg := s.pending[0]
			s.pending[0] = zero
			s.pending = s.pending[1:]
			s.mu.Unlock()

			s.delivered.Add(1)
			return msg, nil
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-s.closed:
			return zero, ErrSessionClosed
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close unsubscribes and releases buffered messages. It is idempotent.
func (s *Session[T]) Close() {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosed))
		close(s.closed)

		s.mu.Lock()
		unsub := s.unsubscribe
		s.unsubscribe = nil
		s.pending = nil
		s.mu.Unlock()

		if unsub != nil {
			unsub()
		}
	})
}

// push is the broadcast handler. It never blocks the publisher.
func (s *Session[T]) push(msg broadcast.Message[T]) error {
	if s.State() == StateClosed {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, msg)
	s.mu.Unlock()

	s.signal()
	return nil
}

func (s *Session[T]) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
