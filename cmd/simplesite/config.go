package main

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/catdaemon/simplesite"
	"github.com/catdaemon/simplesite/middlewares"
	"github.com/catdaemon/simplesite/pkg/db"
	"github.com/catdaemon/simplesite/pkg/logger"
)

// Config is read from the environment.
type Config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// TrustProxy honours X-Forwarded-Proto when deciding if a request is
	// secure. Enable only behind a proxy that sets it.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// LegacyRouting matches patterns against the path including its query
	// string.
	LegacyRouting bool `env:"LEGACY_ROUTING" envDefault:"false"`

	// TemplatesDir overrides the embedded templates and re-reads them on
	// every request.
	TemplatesDir string `env:"TEMPLATES_DIR"`

	PostsPerPage int    `env:"POSTS_PER_PAGE" envDefault:"10"`
	MetricsPath  string `env:"METRICS_PATH" envDefault:"/metrics"`

	DB     db.Config
	Log    logger.Config
	Sentry logger.SentryConfig
}

func loadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

func (c Config) routerOptions(log *slog.Logger) []simplesite.RouterOption {
	opts := []simplesite.RouterOption{simplesite.WithRouterLogger(log)}
	if c.LegacyRouting {
		opts = append(opts, simplesite.WithLegacyNormalization())
	}
	return opts
}

func newLogger(c Config) *slog.Logger {
	return logger.NewWithSentry(c.Sentry, c.Log, middlewares.RequestIDExtractor()).
		With(slog.String("component", "simplesite"))
}
