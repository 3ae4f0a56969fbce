// Package broadcast provides an in-memory publish/subscribe hub with a bounded replay backlog.
//
// A Broadcaster stores every published message in a fixed-capacity ring and
// delivers it to all registered subscribers. When the ring is full the oldest
// message is dropped; the producer is never blocked or signalled.
//
// # Usage
//
//	b, err := broadcast.New[string](broadcast.WithCapacity(100))
//	if err != nil {
//		return err
//	}
//
//	unsubscribe := b.Subscribe(func(msg broadcast.Message[string]) error {
//		fmt.Println(msg.ID, msg.Data)
//		return nil
//	})
//	defer unsubscribe()
//
//	b.Publish("hello")
//
// # Backlog Replay
//
// New subscribers usually want a few recent messages before live traffic.
// SubscribeWithBacklog takes the backlog and registers the handler atomically
// with respect to Publish, so nothing is missed or seen twice:
//
//	recent, unsubscribe := b.SubscribeWithBacklog(10, handler)
//	defer unsubscribe()
//	for _, msg := range recent {
//		// replay
//	}
//
// # Delivery Semantics
//
//   - Fan-out is synchronous: all handlers have run when Publish returns.
//   - Publishes are serialized, so every subscriber sees messages in publish order.
//   - A subscriber receives exactly the messages published while it is registered.
//   - Handler errors and panics are logged and counted in Stats.HandlerErrors;
//     other subscribers and the publisher are unaffected.
//   - Unsubscribe takes effect immediately and is idempotent.
//
// Handlers run on the publisher's goroutine. Handlers that do I/O should hand
// the message off (see package stream) instead of writing inline.
//
// # Thread Safety
//
// All Broadcaster methods are safe for concurrent use.
package broadcast
