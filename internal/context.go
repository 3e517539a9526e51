package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Renderer turns a named template and its data into markup.
// *view.Renderer satisfies it.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Context gives handlers access to the request and response.
// It implements context.Context by delegating to the request context, so
// it can be passed straight to database calls.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a chi URL parameter; empty for regex-routed pages.
	Param(name string) string

	Query(name string) string
	QueryDefault(name, defaultValue string) string

	// Form returns a form value, parsing the body on first access.
	Form(name string) string

	// FormValues returns the parsed form as a flat map holding the first
	// value of each key, ready for record hydration.
	FormValues() map[string]any

	Header(name string) string
	SetHeader(name, value string)

	// Host returns the request host, including any port.
	Host() string

	// RequestURI returns the path and query as sent by the client.
	RequestURI() string

	// IsSecure reports whether the request arrived over TLS, or, when the
	// App trusts its proxy, whether X-Forwarded-Proto says https.
	IsSecure() bool

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error

	// Redirect writes a redirect response immediately.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing anything.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render executes a template through the App's Renderer and writes it
	// with the given status. Nothing is written if rendering fails.
	Render(code int, name string, data any) error

	// RenderPage renders the page's state; the status defaults to 200.
	RenderPage(p Page) error

	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context; Get and Value read it.
	Set(key any, value any)
	Get(key any) any

	// SetContext replaces the request's context, e.g. with one carrying a
	// deadline or a trace span. Later handlers see the new context.
	SetContext(ctx context.Context)

	ResponseWriter() *ResponseWriter
}

type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	renderer       Renderer
	trustProxy     bool
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{
		request:        r,
		responseWriter: rw,
		logger:         app.logger,
		renderer:       app.renderer,
		trustProxy:     app.trustProxy,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormValues() map[string]any {
	if err := c.request.ParseForm(); err != nil {
		c.logger.DebugContext(c, "form parse failed", slog.String("error", err.Error()))
	}
	out := make(map[string]any, len(c.request.Form))
	for k, v := range c.request.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) Host() string {
	return c.request.Host
}

func (c *requestContext) RequestURI() string {
	if c.request.RequestURI != "" {
		return c.request.RequestURI
	}
	return c.request.URL.RequestURI()
}

func (c *requestContext) IsSecure() bool {
	if c.request.TLS != nil {
		return true
	}
	return c.trustProxy && strings.EqualFold(c.request.Header.Get("X-Forwarded-Proto"), "https")
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := io.WriteString(c.responseWriter, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, name string, data any) error {
	if c.renderer == nil {
		return ErrNoRenderer
	}

	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, name, data); err != nil {
		return ErrInternal("", WithError(err))
	}

	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.responseWriter.WriteHeader(code)
	_, err := buf.WriteTo(c.responseWriter)
	return err
}

func (c *requestContext) RenderPage(p Page) error {
	st := p.State()
	code := st.Status
	if code == 0 {
		code = http.StatusOK
	}
	return c.Render(code, st.Template, st)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c, msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c, msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c, msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c, msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.request = c.request.WithContext(ctx)
	}
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
