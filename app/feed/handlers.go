package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/generator"
	"github.com/dmitrymomot/livefeed/core/logger"
	"github.com/dmitrymomot/livefeed/core/response"
)

// ErrNotListening is reported by the readiness probe before the server binds.
var ErrNotListening = errors.New("server is not listening yet")

type endpointDoc struct {
	Description string `json:"description"`
	Response    string `json:"response"`
	Note        string `json:"note,omitempty"`
}

type serverDoc struct {
	Port        int       `json:"port"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

type apiDoc struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version"`
	Description string                 `json:"description"`
	Endpoints   map[string]endpointDoc `json:"endpoints"`
	Server      serverDoc              `json:"server"`
}

var endpoints = map[string]endpointDoc{
	"GET /":                      {Description: "API documentation (this endpoint)", Response: "JSON object with available endpoints"},
	"GET /health":                {Description: "Health check endpoint", Response: "JSON object with server status and timestamp"},
	"GET /health/live":           {Description: "Liveness probe", Response: "ALIVE"},
	"GET /health/ready":          {Description: "Readiness probe", Response: "READY or 503"},
	"GET /api/hello":             {Description: "Simple hello message endpoint", Response: "JSON object with greeting message"},
	"GET /api/time":              {Description: "Server time and timezone information", Response: "JSON object with timestamp and timezone"},
	"GET /api/queue/stats":       {Description: "Message queue and generator statistics", Response: "JSON object with generator and queue state"},
	"POST /api/generator/start":  {Description: "Start the periodic generator", Response: "Generator status", Note: `Optional body {"intervalMs": n}`},
	"POST /api/generator/stop":   {Description: "Stop the periodic generator", Response: "Generator status"},
	"POST /api/messages":         {Description: "Publish a message to all stream clients", Response: "The enqueued message", Note: `Body {"message": "..."}`},
	"GET /api/sse":               {Description: "Server-Sent Events stream for real-time updates", Response: "Event stream with recent and live messages", Note: "Returns text/event-stream content type"},
	"GET /api/ws":                {Description: "WebSocket stream for real-time updates", Response: "One text frame per message"},
	"GET /metrics":               {Description: "Prometheus metrics", Response: "Text exposition format"},
}

func (a *App) handleDocs(w http.ResponseWriter, r *http.Request) {
	docs := apiDoc{
		Name:        a.config.AppName,
		Version:     a.config.AppVersion,
		Description: "Real-time message feed over Server-Sent Events and WebSocket",
		Endpoints:   endpoints,
		Server: serverDoc{
			Port:        portOf(a.server.Addr()),
			Environment: a.config.Env,
			Timestamp:   a.now().UTC(),
		},
	}
	if a.registry == nil {
		docs.Endpoints = make(map[string]endpointDoc, len(endpoints))
		for k, v := range endpoints {
			if k != "GET /metrics" {
				docs.Endpoints[k] = v
			}
		}
	}
	_ = response.JSON(w, docs)
}

func (a *App) handleHello(w http.ResponseWriter, r *http.Request) {
	_ = response.JSON(w, map[string]string{
		"message": "Hello from " + a.config.AppName + " server!",
	})
}

type serverTime struct {
	Timestamp time.Time `json:"timestamp"`
	Timezone  string    `json:"timezone"`
}

func (a *App) handleTime(w http.ResponseWriter, r *http.Request) {
	now := a.now()
	_ = response.JSON(w, serverTime{Timestamp: now.UTC(), Timezone: timezone(now)})
}

type queueStats struct {
	Generator generator.Status `json:"generator"`
	Queue     broadcast.Stats  `json:"queue"`
}

func (a *App) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	_ = response.JSON(w, queueStats{
		Generator: a.generator.Status(),
		Queue:     a.queue.Stats(),
	})
}

type startRequest struct {
	IntervalMs *int64 `json:"intervalMs"`
}

// maxIntervalMs is the largest interval in milliseconds a time.Duration holds.
const maxIntervalMs = math.MaxInt64 / int64(time.Millisecond)

func (a *App) handleGeneratorStart(w http.ResponseWriter, r *http.Request) {
	interval := a.interval()

	var req startRequest
	if err := decodeOptional(r, &req); err != nil {
		_ = response.Error(w, response.ErrBadRequest.WithError(err))
		return
	}
	if req.IntervalMs != nil {
		ms := *req.IntervalMs
		if ms <= 0 || ms > maxIntervalMs {
			_ = response.Error(w, response.ErrUnprocessableEntity.WithMessage(
				fmt.Sprintf("intervalMs must be between 1 and %d", maxIntervalMs)))
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	if err := a.generator.Start(interval); err != nil {
		_ = response.Error(w, response.ErrUnprocessableEntity.WithError(err))
		return
	}
	_ = response.JSON(w, a.generator.Status())
}

func (a *App) handleGeneratorStop(w http.ResponseWriter, r *http.Request) {
	a.generator.Stop()
	_ = response.JSON(w, a.generator.Status())
}

type publishRequest struct {
	Message string `json:"message"`
}

func (a *App) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			_ = response.Error(w, response.ErrRequestTooLarge.WithError(err))
			return
		}
		_ = response.Error(w, response.ErrBadRequest.WithError(err))
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		_ = response.Error(w, response.ErrBadRequest.WithMessage("message is required"))
		return
	}

	msg := a.queue.Publish(generator.Payload{
		Timestamp: a.now().UTC(),
		Message:   text,
		Random:    rand.Float64(),
	})

	a.logger.InfoContext(r.Context(), "message published",
		logger.Component("api"),
		logger.MessageID(msg.ID),
	)
	_ = response.JSONWithStatus(w, msg, http.StatusCreated)
}

func (a *App) checkListening(context.Context) error {
	select {
	case <-a.server.Ready():
		return nil
	default:
		return ErrNotListening
	}
}

// decodeOptional decodes a JSON body if one is present.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func portOf(addr string) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(port)
	return n
}

// timezone prefers the IANA name from TZ and falls back to the zone abbreviation.
func timezone(now time.Time) string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := now.Location().String(); name != "Local" {
		return name
	}
	name, _ := now.Zone()
	return name
}
