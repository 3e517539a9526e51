// Package logger builds the slog loggers used across simplesite.
//
// Loggers write JSON (or text) to stdout at a configurable level and can
// fan out to Sentry. Request-scoped values such as the request ID are added
// by context extractors, evaluated on every log call:
//
//	log := logger.NewWithConfig(logger.Config{Level: "debug", Format: "text"}, os.Stdout,
//		middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(r.Context(), "page rendered", slog.String("page", "blog"))
//	// level=INFO msg="page rendered" page=blog request_id=0190...
//
// [ContextValue] covers the common case of logging a single context key.
//
// # Sentry
//
// [NewWithSentry] forwards records at or above SentryConfig.MinLevel to
// Sentry as logs and turns errors into issues. With an empty DSN it behaves
// like [NewWithConfig], so development and production share one code path.
//
// [NewNope] is the default logger of every package that accepts one.
package logger
