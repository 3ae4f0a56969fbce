// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options, and the attribute helpers
// give log records consistent keys across the service:
//
//	log := logger.New(
//		logger.WithProduction("livefeed"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("generator started",
//		logger.Component("generator"),
//		logger.Interval(time.Second),
//	)
//
//	log.Warn("subscriber handler failed",
//		logger.Component("broadcast"),
//		logger.Error(err),
//		logger.MessageID(msg.ID),
//	)
//
// Helpers return an empty slog.Attr for nil or empty input, which slog omits,
// so callers never need nil checks before logging an error.
//
// Components across this module default to Discard, keeping logging opt-in:
//
//	b, _ := broadcast.New[Payload](broadcast.WithLogger(log))
//
// Capture output in tests with WithOutput:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
package logger
