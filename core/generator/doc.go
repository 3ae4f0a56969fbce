// Package generator provides a periodic producer that publishes a synthesized
// payload on a fixed tick.
//
// A Generator owns at most one ticker goroutine. Start on a running generator
// is a no-op, and Stop waits for the goroutine to exit, so no tick fires after
// Stop returns:
//
//	b, _ := broadcast.New[generator.Payload]()
//	g, err := generator.New(b, generator.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	if err := g.Start(time.Second); err != nil {
//		return err // ErrInvalidInterval
//	}
//	defer g.Stop()
//
// For errgroup-based lifecycles use Run:
//
//	eg.Go(g.Run(ctx, cfg.Interval))
//
// Payload synthesis is pluggable. By default each tick picks one of
// DefaultMessages at random and attaches a random float in [0,1). Tests
// inject a deterministic function:
//
//	g, _ := generator.New(b, generator.WithPayloadFunc(func(now time.Time) generator.Payload {
//		return generator.Payload{Timestamp: now, Message: "fixed", Random: 0.5}
//	}))
package generator
