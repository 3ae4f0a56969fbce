package health

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/livefeed/core/response"
)

// Status is the body of the status endpoint.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusHandler reports {"status":"ok","timestamp":...}. now defaults to time.Now.
func StatusHandler(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_ = response.JSON(w, Status{Status: "ok", Timestamp: now().UTC()})
	}
}

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
func Liveness(w http.ResponseWriter, r *http.Request) {
	_ = response.String(w, "ALIVE")
}

// NoContent returns HTTP 204 without body. Ideal for high-frequency checks.
func NoContent(w http.ResponseWriter, r *http.Request) {
	response.NoContent(w)
}
