package simplesite

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/catdaemon/simplesite/internal"
	"github.com/catdaemon/simplesite/pkg/health"
	"github.com/catdaemon/simplesite/pkg/logger"
)

// Type aliases - public API
type (
	// App is the HTTP shell around the route table.
	App = internal.App

	// Router is the ordered regex route table.
	Router = internal.Router

	// RouterOption configures a Router.
	RouterOption = internal.RouterOption

	// RouteFunc handles a matched route with its captured path segments.
	RouteFunc = internal.RouteFunc

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Page is a handler whose output is a renderable state.
	Page = internal.Page

	// PageState is what templates receive.
	PageState = internal.PageState

	// Base is embedded by every concrete page.
	Base = internal.Base

	// Pages is the registry of page factories.
	Pages = internal.Pages

	// PageFactory builds a fresh page per request.
	PageFactory = internal.PageFactory

	// Renderer turns a named template and data into markup.
	Renderer = internal.Renderer

	// Terminate ends a request with a redirect.
	Terminate = internal.Terminate

	// HTTPError carries a status code to answer with.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Mux declares explicit method routes.
	Mux = internal.Mux

	// Handler declares routes on a Mux.
	Handler = internal.Handler

	// HandlerFunc is the signature for Mux handlers and middleware.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc.
	Middleware = internal.Middleware

	// ErrorHandler answers for errors returned by handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures App.Run.
	RunOption = internal.RunOption

	// HealthOption configures the health endpoints.
	HealthOption = internal.HealthOption

	// ResponseWriter records status and size and runs before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// Extractor reads a value from the first source that has one.
	Extractor = internal.Extractor

	// ExtractorSource is one candidate source for an Extractor.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor adds a request-scoped attribute to log records.
	ContextExtractor = logger.ContextExtractor
)

// Well-known template names and data keys.
const (
	NotFoundTemplate = internal.NotFoundTemplate
	ErrorTemplate    = internal.ErrorTemplate
	PageKey          = internal.PageKey
)

// Errors
var (
	ErrRouterSealed   = internal.ErrRouterSealed
	ErrInvalidPattern = internal.ErrInvalidPattern
	ErrPageNotFound   = internal.ErrPageNotFound
	ErrNoIndex        = internal.ErrNoIndex
	ErrNoRenderer     = internal.ErrNoRenderer
)

// New creates an application. The route table is sealed on return.
//
//	pages := simplesite.NewPages()
//	pages.Register("home", func() simplesite.Page { return &Home{} })
//
//	routes := simplesite.NewRouter()
//	routes.AddRoute("/", simplesite.PageRoute(pages, "home"))
//
//	app := simplesite.New(
//	    simplesite.WithRoutes(routes),
//	    simplesite.WithRenderer(view.New(templates, view.WithLayout("layout.html"))),
//	)
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRouter creates an empty route table. Patterns are matched in the order
// they are added; the first full match wins.
func NewRouter(opts ...RouterOption) *Router {
	return internal.NewRouter(opts...)
}

// WithRouterLogger sets where malformed patterns are reported.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return internal.WithRouterLogger(l)
}

// WithLegacyNormalization keeps the query string in matched paths.
func WithLegacyNormalization() RouterOption {
	return internal.WithLegacyNormalization()
}

// NewPages creates an empty page registry.
func NewPages() *Pages {
	return internal.NewPages()
}

// NormalizePageName lowercases name and keeps only [a-z0-9 ].
func NormalizePageName(name string) string {
	return internal.NormalizePageName(name)
}

// PageRoute returns a route handler that resolves, runs and renders the
// named page.
func PageRoute(pages *Pages, name string) RouteFunc {
	return internal.PageRoute(pages, name)
}

// MatchedPattern returns the route pattern that served the request.
func MatchedPattern(ctx context.Context) string {
	return internal.MatchedPattern(ctx)
}

// Arg returns the i-th captured segment or "".
func Arg(args []string, i int) string {
	return internal.Arg(args, i)
}

// ArgInt parses the i-th captured segment as an int.
func ArgInt(args []string, i int) (int, bool) {
	return internal.ArgInt(args, i)
}

// App options

func WithRoutes(r *Router) Option {
	return internal.WithRoutes(r)
}

func WithRenderer(r Renderer) Option {
	return internal.WithRenderer(r)
}

// WithTrustProxy makes IsSecure honor X-Forwarded-Proto.
func WithTrustProxy(trust bool) Option {
	return internal.WithTrustProxy(trust)
}

// WithMiddleware adds global middleware, applied in order.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers with explicit routes. They win over the
// regex route table.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMount attaches a plain http.Handler.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithStaticFiles serves subDir of fsys under pattern, without directory
// listings.
//
//	//go:embed public
//	var assets embed.FS
//
//	simplesite.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
//	simplesite.WithHealthChecks(
//	    simplesite.WithReadinessCheck("db", db.Healthcheck(conn.DB)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger tagged with component.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health check options

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server listens; an error aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server stops.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the context whose cancellation stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors and redirects

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

func WithRequestID(id string) HTTPErrorOption {
	return internal.WithRequestID(id)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

func IsTerminate(err error) bool {
	return internal.IsTerminate(err)
}

func AsTerminate(err error) *Terminate {
	return internal.AsTerminate(err)
}

// Extractors

func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// Helpers

// ContextValue returns the request-scoped value under key as T, or T's zero
// value.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// QueryDefault returns a typed query parameter, or def when it is missing
// or malformed.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}
