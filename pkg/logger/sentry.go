package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration settings.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level forwarded to Sentry as a log entry.
	// Errors always become Sentry events.
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"WARN"`
}

// NewWithSentry creates a stdout logger that also forwards warnings and
// errors to Sentry. An empty DSN, or a failed SDK init, leaves stdout only.
func NewWithSentry(cfg SentryConfig, log Config, extractors ...ContextExtractor) *slog.Logger {
	return newWithSentry(cfg, log, os.Stdout, extractors...)
}

func newWithSentry(cfg SentryConfig, log Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	stdout := log.handler(w)
	if cfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("sentry init failed, logging to stdout only", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	handler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   sentryLevels(cfg.MinLevel),
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(fanout{stdout, handler}, extractors...))
}

// sentryLevels lists the slog levels at or above floor that Sentry stores
// as log entries.
func sentryLevels(floor slog.Level) []slog.Level {
	var out []slog.Level
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if lvl >= floor {
			out = append(out, lvl)
		}
	}
	if len(out) == 0 {
		out = []slog.Level{slog.LevelError}
	}
	return out
}
