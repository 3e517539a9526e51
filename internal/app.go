package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/catdaemon/simplesite/pkg/health"
	"github.com/catdaemon/simplesite/pkg/logger"
)

// Server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App is the HTTP shell around the regex router. chi serves health
// probes, static files, mounted handlers and explicit Mux routes; every
// other request goes through the route table in registration order.
//
// App is immutable after New. The route table is sealed by New.
type App struct {
	mux             chi.Router
	routes          *Router
	renderer        Renderer
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	healthConfig    *healthConfig
	logger          *slog.Logger
	trustProxy      bool
	middlewares     []Middleware
	handlers        []Handler
	mounts          []mount
}

type mount struct {
	handler http.Handler
	pattern string
}

// New creates an application.
//
// Example:
//
//	routes := simplesite.NewRouter()
//	routes.AddRoute("/", simplesite.PageRoute(pages, "home"))
//	routes.AddRoute("blog/.+/", simplesite.PageRoute(pages, "blog"))
//
//	app := simplesite.New(
//	    simplesite.WithRoutes(routes),
//	    simplesite.WithRenderer(view.New(templates)),
//	    simplesite.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	)
func New(opts ...Option) *App {
	a := &App{
		mux:             chi.NewRouter(),
		logger:          logger.NewNope(),
		notFoundHandler: defaultNotFound,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.routes == nil {
		a.routes = NewRouter(WithRouterLogger(a.logger))
	}
	a.routes.Seal()

	a.setupRoutes()
	return a
}

// ServeHTTP makes the App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Routes returns the regex route table.
func (a *App) Routes() *Router {
	return a.routes
}

// Run serves on addr until SIGINT or SIGTERM, then shuts down gracefully.
//
//	err := app.Run(":8080",
//	    simplesite.Logger(log),
//	    simplesite.ShutdownHook(db.Shutdown(conn)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	a.mux.Use(trackMatch, a.answerErrors)
	for _, mw := range a.middlewares {
		a.mux.Use(a.adaptMiddleware(mw))
	}

	for _, m := range a.mounts {
		a.mux.Mount(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		a.mux.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.mux.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks,
			health.WithLogger(a.logger),
		))
	}

	m := &muxAdapter{router: a.mux, app: a}
	for _, h := range a.handlers {
		h.Routes(m)
	}

	a.mux.Handle("/*", a.wrapHandler(dispatcher(a.routes, a.notFoundHandler)))
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		a.fail(c, h(c))
	}
}

// errorSlot carries a handler error back out through the global middleware
// chain. Each layer takes it as the result of next and puts back what it
// returns; answerErrors handles whatever is left once.
type errorSlot struct {
	err error
	req *http.Request
}

type errorSlotKey struct{}

func (a *App) answerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot := &errorSlot{}
		rw := NewResponseWriter(w)
		r = r.WithContext(context.WithValue(r.Context(), errorSlotKey{}, slot))

		next.ServeHTTP(rw, r)

		if slot.err == nil {
			return
		}
		// The outermost layer's request still carries values set by
		// middleware, such as the request ID.
		if slot.req != nil {
			r = slot.req
		}
		a.handleError(newContext(rw, r, a), slot.err)
	})
}

// fail hands err to the enclosing middleware chain, or answers for it
// directly when the request did not come through answerErrors.
func (a *App) fail(c Context, err error) {
	if err == nil {
		return
	}
	if slot, ok := c.Request().Context().Value(errorSlotKey{}).(*errorSlot); ok {
		slot.err, slot.req = err, c.Request()
		return
	}
	a.handleError(c, err)
}

// takeError returns and clears the error left by the inner handlers.
func takeError(r *http.Request) error {
	slot, ok := r.Context().Value(errorSlotKey{}).(*errorSlot)
	if !ok {
		return nil
	}
	err := slot.err
	slot.err, slot.req = nil, nil
	return err
}

// handleError answers for a failed handler. A *Terminate becomes its
// redirect; anything else goes to the error handler unless a response was
// already started.
func (a *App) handleError(c Context, err error) {
	if t := AsTerminate(err); t != nil {
		if !c.Written() {
			http.Redirect(c.Response(), c.Request(), t.URL, t.Code)
		}
		return
	}

	if c.Written() {
		a.logger.WarnContext(c, "handler error after response started", slog.Any("error", err))
		return
	}

	h := a.errorHandler
	if h == nil {
		h = a.defaultErrorHandler
	}
	if herr := h(c, err); herr != nil && !c.Written() {
		a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
		http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (a *App) defaultErrorHandler(c Context, err error) error {
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	if httpErr := AsHTTPError(err); httpErr != nil {
		code, message = httpErr.Code, httpErr.Message
	}

	if code >= http.StatusInternalServerError {
		a.logger.ErrorContext(c, "request failed",
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}
	http.Error(c.Response(), message, code)
	return nil
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
//	simplesite.WithReadinessCheck("database", db.Healthcheck(conn))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		c.checks[name] = fn
	}
}

type matchKey struct{}

type matchInfo struct {
	pattern string
}

// trackMatch gives the request a slot the router fills with the pattern
// that served it.
func trackMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), matchKey{}, &matchInfo{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MatchedPattern returns the regex route pattern that handled the request,
// or "" when no regex route matched (yet). Middleware can read it after
// calling next, e.g. to label metrics.
func MatchedPattern(ctx context.Context) string {
	if m, ok := ctx.Value(matchKey{}).(*matchInfo); ok {
		return m.pattern
	}
	return ""
}

func recordMatch(ctx context.Context, pattern string) {
	if ctx == nil {
		return
	}
	if m, ok := ctx.Value(matchKey{}).(*matchInfo); ok {
		m.pattern = pattern
	}
}
