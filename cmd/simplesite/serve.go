package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/catdaemon/simplesite"
	"github.com/catdaemon/simplesite/cmd/simplesite/site"
	"github.com/catdaemon/simplesite/middlewares"
	"github.com/catdaemon/simplesite/pkg/db"
	"github.com/catdaemon/simplesite/pkg/record"
	"github.com/catdaemon/simplesite/pkg/view"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the web server until SIGINT or SIGTERM.

Pending migrations are applied before the listener starts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $ADDRESS)")
	return cmd
}

func serve(ctx context.Context, cfg Config) error {
	log := newLogger(cfg)

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}

	s, err := site.New(conn, record.DialectFor(conn.Driver),
		site.WithPerPage(cfg.PostsPerPage),
		site.WithLogger(log),
	)
	if err != nil {
		_ = conn.Close()
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := append(s.Options(cfg.routerOptions(log)...),
		simplesite.WithCustomLogger(log),
		simplesite.WithRenderer(newRenderer(cfg)),
		simplesite.WithTrustProxy(cfg.TrustProxy),
		simplesite.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Tracing(middlewares.WithTraceFilter(func(c simplesite.Context) bool {
				return !strings.HasPrefix(c.Request().URL.Path, "/health/")
			})),
			middlewares.Metrics(middlewares.WithRegistry(reg)),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		simplesite.WithMount(cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		simplesite.WithHealthChecks(simplesite.WithReadinessCheck("db", db.Healthcheck(conn))),
	)
	app := simplesite.New(opts...)

	return app.Run(cfg.Address,
		simplesite.Logger(log),
		simplesite.WithContext(ctx),
		simplesite.ShutdownTimeout(cfg.ShutdownTimeout),
		simplesite.StartupHook(func(ctx context.Context) error {
			if err := site.Migrate(ctx, conn, cfg.DB.MigrationsTable, log); err != nil {
				return err
			}
			return s.Verify(ctx)
		}),
		simplesite.ShutdownHook(db.Shutdown(conn)),
		simplesite.ShutdownHook(func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		}),
	)
}

func newRenderer(cfg Config) *view.Renderer {
	if cfg.TemplatesDir != "" {
		return view.New(os.DirFS(cfg.TemplatesDir), view.WithLayout("layout.html"), view.WithReload())
	}
	return view.New(site.Templates(), view.WithLayout("layout.html"))
}
