package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/logger"
)

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = time.Second

// Publisher accepts generated payloads. *broadcast.Broadcaster[Payload] satisfies it.
type Publisher interface {
	Publish(Payload) broadcast.Message[Payload]
}

// Status is a snapshot of generator state.
type Status struct {
	Running    bool  `json:"running"`
	IntervalMs int64 `json:"intervalMs"`
}

// Generator publishes one synthesized payload per tick.
// At most one ticker goroutine runs per Generator.
type Generator struct {
	publisher Publisher
	payload   PayloadFunc
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	running  bool
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	// loopGoroutine identifies the ticker goroutine while it runs.
	loopGoroutine atomic.Uint64
}

// New creates a stopped Generator that publishes to p.
func New(p Publisher, opts ...Option) (*Generator, error) {
	if p == nil {
		return nil, ErrPublisherNil
	}

	o := &options{
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.payload == nil {
		o.payload = RandomPayload(o.messages, o.random)
	}

	return &Generator{
		publisher: p,
		payload:   o.payload,
		now:       o.now,
		logger:    o.logger,
	}, nil
}

// Start begins publishing every interval. Calling Start on a running
// generator has no effect and returns nil.
func (g *Generator) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		g.logger.Debug("generator already running",
			logger.Component("generator"),
			logger.Interval(g.interval))
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	g.running = true
	g.interval = interval
	g.cancel = cancel
	g.done = done

	go g.loop(ctx, interval, done)

	g.logger.Info("generator started",
		logger.Component("generator"),
		logger.Interval(interval))

	return nil
}

// Stop halts the generator and waits for the ticker goroutine to exit.
// No tick fires after Stop returns. Stopping a stopped generator is a no-op.
//
// Fan-out is synchronous, so a subscriber may call Stop from inside a tick.
// That call cancels the ticker and returns without waiting; the current tick
// finishes and no further tick fires.
func (g *Generator) Stop() {
	g.mu.Lock()
	if !g.running {
		// A concurrent Stop may still be draining the last tick.
		done := g.done
		g.mu.Unlock()
		if done != nil && !g.inLoop() {
			<-done
		}
		g.logger.Debug("generator not running", logger.Component("generator"))
		return
	}

	cancel, done := g.cancel, g.done
	g.running = false
	g.cancel = nil
	g.mu.Unlock()

	cancel()
	if !g.inLoop() {
		<-done
	}

	g.logger.Info("generator stopped", logger.Component("generator"))
}

// Status reports whether the generator is running and its interval.
// IntervalMs is zero while stopped.
func (g *Generator) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return Status{}
	}
	return Status{Running: true, IntervalMs: g.interval.Milliseconds()}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function starts the generator, blocks until ctx is cancelled,
// then stops it.
func (g *Generator) Run(ctx context.Context, interval time.Duration) func() error {
	return func() error {
		if err := g.Start(interval); err != nil {
			return err
		}
		<-ctx.Done()
		g.Stop()
		return nil
	}
}

func (g *Generator) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	id := goroutineID()
	g.loopGoroutine.Store(id)
	defer func() {
		g.loopGoroutine.CompareAndSwap(id, 0)
		close(done)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick racing with Stop must not publish once cancellation is visible.
			if ctx.Err() != nil {
				return
			}
			g.tick()
		}
	}
}

// tick publishes one payload. A panicking payload function is logged and
// the ticker keeps running.
func (g *Generator) tick() {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("generator tick panicked",
				logger.Component("generator"),
				logger.Panic(r))
		}
	}()

	msg := g.publisher.Publish(g.payload(g.now()))

	g.logger.Debug("generator tick",
		logger.Component("generator"),
		logger.MessageID(msg.ID))
}

// inLoop reports whether the caller is the ticker goroutine.
func (g *Generator) inLoop() bool {
	id := g.loopGoroutine.Load()
	return id != 0 && id == goroutineID()
}

// goroutineID parses the current goroutine's ID from its stack header,
// "goroutine 42 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
