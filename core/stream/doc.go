// Package stream delivers broadcast messages to long-lived client connections.
//
// A Session subscribes to a Source (normally a *broadcast.Broadcaster) with a
// backlog, buffers messages per client and hands them out in order through
// Next. Buffering is unbounded so a slow client never makes the publisher wait
// and never loses messages while connected.
//
//	sess := stream.Open(b, 10)
//	defer sess.Close()
//	for {
//		msg, err := sess.Next(ctx)
//		if err != nil {
//			return
//		}
//		send(msg)
//	}
//
// # Transports
//
// SSE and WebSocket wrap a Session in an http.HandlerFunc:
//
//	r.Get("/api/sse", stream.SSE(b, stream.WithBacklog(10)))
//	r.Get("/api/ws", stream.WebSocket(b, stream.WithCheckOrigin(allowAll)))
//
// SSE writes ": connected" on open, then one "data: <json>" event per message
// and ": keepalive" comments while idle. WebSocket sends one text frame per
// message and pings while idle. A payload that fails to encode is logged and
// skipped; the stream continues. A disconnected client closes its session
// and unsubscribes.
package stream
