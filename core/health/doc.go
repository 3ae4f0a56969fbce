// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - StatusHandler: JSON {"status":"ok","timestamp":...}
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	r.Get("/health", health.StatusHandler(nil))
//	r.Get("/health/live", health.Liveness)
//	r.Get("/health/ready", health.Readiness(log, checkGenerator))
//
// Dependency checks must follow func(context.Context) error signature.
package health
