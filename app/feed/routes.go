package feed

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/livefeed/core/health"
	"github.com/dmitrymomot/livefeed/core/response"
	"github.com/dmitrymomot/livefeed/core/stream"
	"github.com/dmitrymomot/livefeed/integration/prometheus"
	"github.com/dmitrymomot/livefeed/middleware"
)

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: a.logger,
		Skip:   isStreamRequest,
	}))
	r.Use(middleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.Error(w, response.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = response.Error(w, response.ErrMethodNotAllowed)
	})

	r.Get("/", a.handleDocs)

	r.Get("/health", health.StatusHandler(a.now))
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(a.logger, a.checkListening))

	streamOpts := append(a.config.Stream.Options(), stream.WithLogger(a.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", a.handleHello)
		r.Get("/time", a.handleTime)
		r.Get("/queue/stats", a.handleQueueStats)

		r.Post("/generator/start", a.handleGeneratorStart)
		r.Post("/generator/stop", a.handleGeneratorStop)

		r.With(chimw.RequestSize(a.config.MaxMessageBytes)).Post("/messages", a.handlePublish)

		r.Get("/sse", stream.SSE(a.queue, streamOpts...))
		r.Get("/ws", stream.WebSocket(a.queue, append(streamOpts, stream.WithCheckOrigin(allowAnyOrigin))...))
	})

	if a.registry != nil {
		r.Method(http.MethodGet, "/metrics", prometheus.Handler(a.registry))
	}

	return r
}

func isStreamRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/sse") || strings.HasPrefix(r.URL.Path, "/api/ws")
}

// allowAnyOrigin mirrors the wildcard CORS policy for WebSocket upgrades.
func allowAnyOrigin(*http.Request) bool {
	return true
}
