package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/livefeed/core/logger"
	"github.com/dmitrymomot/livefeed/core/response"
)

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
//
//	r.Get("/health/ready", health.Readiness(log, gen.Check))
func Readiness(log *slog.Logger, fn ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		for _, f := range fn {
			if err := f(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				_ = response.Error(w, response.ErrServiceUnavailable.WithError(err))
				return
			}
		}

		_ = response.String(w, "READY")
	}
}
