package broadcast

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/livefeed/core/logger"
	"github.com/dmitrymomot/livefeed/core/ring"
)

// Message is a published value together with its identity and enqueue time.
// Messages are never mutated after Publish returns.
type Message[T any] struct {
	ID         string    `json:"id"`
	Data       T         `json:"data"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// Handler receives published messages. A returned error is logged and
// counted; it never reaches the publisher or other subscribers.
// Handlers run on the publishing goroutine and must not block.
type Handler[T any] func(Message[T]) error

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Stats is a point-in-time snapshot of broadcaster state.
type Stats struct {
	QueueSize       int   `json:"queueSize"`
	SubscriberCount int   `json:"subscriberCount"`
	Capacity        int   `json:"maxSize"`
	Published       int64 `json:"published"`
	Evicted         int64 `json:"evicted"`
	HandlerErrors   int64 `json:"handlerErrors"`
}

type subscription[T any] struct {
	id      uint64
	handler Handler[T]
	active  atomic.Bool
}

// Broadcaster keeps a bounded backlog of published messages and fans each
// new message out to every registered subscriber.
type Broadcaster[T any] struct {
	// pubMu serializes publishes so subscribers observe publish order.
	pubMu sync.Mutex

	// mu guards queue and subs.
	mu     sync.RWMutex
	queue  *ring.Ring[Message[T]]
	subs   []*subscription[T]
	nextID uint64

	logger *slog.Logger
	newID  func() string
	now    func() time.Time

	published     atomic.Int64
	evicted       atomic.Int64
	handlerErrors atomic.Int64
}

// New creates a Broadcaster. It fails only on invalid configuration.
func New[T any](opts ...Option) (*Broadcaster[T], error) {
	o := &options{
		capacity: DefaultCapacity,
		logger:   logger.Discard(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	q, err := ring.New[Message[T]](o.capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %w", ErrInvalidCapacity, o.capacity, err)
	}

	return &Broadcaster[T]{
		queue:  q,
		logger: o.logger,
		newID:  o.newID,
		now:    o.now,
	}, nil
}

// NewFromConfig creates a Broadcaster from configuration.
// Additional options override config values.
func NewFromConfig[T any](cfg Config, opts ...Option) (*Broadcaster[T], error) {
	allOpts := append([]Option{WithCapacity(cfg.Capacity)}, opts...)
	return New[T](allOpts...)
}

// Publish stores data in the backlog, evicting the oldest message when full,
// and delivers it to every current subscriber before returning.
func (b *Broadcaster[T]) Publish(data T) Message[T] {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	msg := Message[T]{
		ID:         b.newID(),
		Data:       data,
		EnqueuedAt: b.now(),
	}

	b.mu.Lock()
	if _, evicted := b.queue.Push(msg); evicted {
		b.evicted.Add(1)
	}
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	b.published.Add(1)

	// Fan-out runs outside mu so handlers may unsubscribe themselves.
	for _, s := range subs {
		if !s.active.Load() {
			continue
		}
		b.deliver(s, msg)
	}

	return msg
}

// Subscribe registers h for every message published after this call.
func (b *Broadcaster[T]) Subscribe(h Handler[T]) Unsubscribe {
	_, unsub := b.SubscribeWithBacklog(0, h)
	return unsub
}

// SubscribeWithBacklog returns up to n recent messages and registers h for
// all later ones in a single step. Every message is seen exactly once,
// either in the returned backlog or through h.
func (b *Broadcaster[T]) SubscribeWithBacklog(n int, h Handler[T]) ([]Message[T], Unsubscribe) {
	if h == nil {
		return b.Backlog(n), func() {}
	}

	b.mu.Lock()
	backlog := b.queue.Recent(n)
	b.nextID++
	s := &subscription[T]{id: b.nextID, handler: h}
	s.active.Store(true)
	b.subs = append(b.subs, s)
	b.mu.Unlock()

	var once sync.Once
	return backlog, func() {
		once.Do(func() {
			s.active.Store(false)
			b.remove(s)
		})
	}
}

// Backlog returns up to n most recent messages, oldest first.
func (b *Broadcaster[T]) Backlog(n int) []Message[T] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue.Recent(n)
}

// Stats returns a snapshot of queue and subscriber counters.
func (b *Broadcaster[T]) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Stats{
		QueueSize:       b.queue.Len(),
		SubscriberCount: len(b.subs),
		Capacity:        b.queue.Cap(),
		Published:       b.published.Load(),
		Evicted:         b.evicted.Load(),
		HandlerErrors:   b.handlerErrors.Load(),
	}
}

// Reset clears the backlog. Subscribers stay registered.
func (b *Broadcaster[T]) Reset() {
	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	b.queue.Reset()
	b.mu.Unlock()
}

func (b *Broadcaster[T]) remove(s *subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = slices.DeleteFunc(b.subs, func(x *subscription[T]) bool {
		return x == s
	})
}

// deliver invokes one handler, isolating its errors and panics.
func (b *Broadcaster[T]) deliver(s *subscription[T], msg Message[T]) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerErrors.Add(1)
			b.logger.Error("subscriber handler panicked",
				logger.Component("broadcast"),
				logger.Error(fmt.Errorf("%w: %v", ErrHandlerPanic, r)),
				logger.MessageID(msg.ID),
				logger.ID("subscriber", s.id),
			)
		}
	}()

	if err := s.handler(msg); err != nil {
		b.handlerErrors.Add(1)
		b.logger.Warn("subscriber handler failed",
			logger.Component("broadcast"),
			logger.Error(err),
			logger.MessageID(msg.ID),
			logger.ID("subscriber", s.id),
		)
	}
}
