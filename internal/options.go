package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catdaemon/simplesite/pkg/health"
	"github.com/catdaemon/simplesite/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithRoutes sets the regex route table. The App seals it.
func WithRoutes(r *Router) Option {
	return func(a *App) {
		a.routes = r
	}
}

// WithRenderer sets the template renderer used by Context.Render and
// Context.RenderPage.
func WithRenderer(r Renderer) Option {
	return func(a *App) {
		a.renderer = r
	}
}

// WithTrustProxy makes Context.IsSecure honor X-Forwarded-Proto. Enable it
// only behind a proxy that sets the header itself.
func WithTrustProxy(trust bool) Option {
	return func(a *App) {
		a.trustProxy = trust
	}
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare explicit chi routes. These
// take precedence over the regex route table.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithMount attaches a plain http.Handler at pattern, e.g. a metrics
// endpoint.
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
	}
}

// WithStaticFiles serves subDir of fsys under pattern. Directory listings
// are disabled.
//
//	//go:embed public
//	var assets embed.FS
//
//	simplesite.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			files.ServeHTTP(w, r)
		})

		a.mounts = append(a.mounts, mount{handler: handler, pattern: pattern})
	}
}

// WithErrorHandler replaces the default error handler, which answers with
// the HTTPError's status and message or a plain 500.
// It never sees *Terminate; those are written as redirects.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler handles requests no route matched. The default
// returns a 404 HTTPError.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.notFoundHandler = h
		}
	}
}

// WithHealthChecks enables /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a JSON logger tagged with component.
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets the logger as-is.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
