package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/logger"
)

// SSE returns a handler that streams src to the client as Server-Sent Events.
// Each message becomes one event whose data is the encoded payload.
func SSE[T any](src Source[T], opts ...Option) http.HandlerFunc {
	o := newOptions(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		sess := Open(src, o.backlog)
		defer sess.Close()

		log := o.logger.With(
			logger.Component("stream"),
			logger.Transport("sse"),
			logger.SessionID(sess.ID()),
		)
		log.DebugContext(r.Context(), "client connected", logger.RemoteAddr(r.RemoteAddr))

		preamble := ": connected\n\n"
		if o.reconnect > 0 {
			preamble = fmt.Sprintf("retry: %d\n\n", o.reconnect) + preamble
		}
		if _, err := io.WriteString(w, preamble); err != nil {
			log.DebugContext(r.Context(), "client gone", logger.Error(err))
			return
		}
		flusher.Flush()

		ctx := r.Context()
		for {
			msg, idle, err := nextOrIdle(ctx, sess, o.keepAliveInterval())
			if err != nil {
				log.DebugContext(ctx, "stream ended",
					logger.Error(err),
					logger.Key("delivered", sess.Delivered()),
				)
				return
			}

			if idle {
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					log.DebugContext(ctx, "client gone", logger.Error(err))
					return
				}
				flusher.Flush()
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

			if err := writeEvent(w, o, msg, data); err != nil {
				log.DebugContext(ctx, "client gone", logger.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one event. Multi-line payloads are split into
// consecutive data lines.
func writeEvent[T any](w io.Writer, o *options, msg broadcast.Message[T], data []byte) error {
	var buf bytes.Buffer

	if o.eventName != "" {
		fmt.Fprintf(&buf, "event: %s\n", o.eventName)
	}
	if o.eventIDs && msg.ID != "" {
		fmt.Fprintf(&buf, "id: %s\n", msg.ID)
	}
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimSuffix(line, []byte("\r")))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

// nextOrIdle waits for the next message. With a positive keepAlive it
// reports idle=true when no message arrived within that interval.
func nextOrIdle[T any](ctx context.Context, sess *Session[T], keepAlive time.Duration) (broadcast.Message[T], bool, error) {
	if keepAlive <= 0 {
		msg, err := sess.Next(ctx)
		return msg, false, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, keepAlive)
	defer cancel()

	msg, err := sess.Next(waitCtx)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return msg, true, nil
	}
	return msg, false, err
}
