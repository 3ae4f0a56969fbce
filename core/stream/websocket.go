package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/livefeed/core/logger"
)

// WebSocket returns a handler that upgrades the connection and sends each
// message as one text frame containing the encoded payload.
// Incoming frames are read and discarded; a read error ends the session.
func WebSocket[T any](src Source[T], opts ...Option) http.HandlerFunc {
	o := newOptions(opts)
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     o.checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		log := o.logger.With(logger.Component("stream"), logger.Transport("websocket"))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			log.WarnContext(r.Context(), "upgrade failed",
				logger.RemoteAddr(r.RemoteAddr),
				logger.Error(err),
			)
			return
		}
		defer func() { _ = conn.Close() }()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		sess := Open(src, o.backlog)
		defer sess.Close()

		log = log.With(logger.SessionID(sess.ID()))
		log.DebugContext(ctx, "client connected", logger.RemoteAddr(r.RemoteAddr))

		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			msg, idle, err := nextOrIdle(ctx, sess, o.keepAliveInterval())
			if err != nil {
				log.DebugContext(ctx, "stream ended",
					logger.Error(err),
					logger.Key("delivered", sess.Delivered()),
				)
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(wsWriteWait),
				)
				return
			}

			if idle {
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					log.DebugContext(ctx, "client gone", logger.Error(err))
					return
				}
				continue
			}

			data, err := o.encode(msg.Data)
			if err != nil {
				log.WarnContext(ctx, "message skipped",
					logger.MessageID(msg.ID),
					logger.Error(encodeError(err)),
				)
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.DebugContext(ctx, "client gone", logger.Error(err))
				return
			}
		}
	}
}
