package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Mux declares explicit method routes next to the regex route table, for
// endpoints such as JSON feeds or form posts that do not fit a page.
type Mux interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)

	// Route groups routes under a pattern prefix.
	Route(pattern string, fn func(m Mux))

	// Use appends middleware to this mux's stack.
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler.
	Mount(pattern string, h http.Handler)
}

type muxAdapter struct {
	router chi.Router
	app    *App
}

func (m *muxAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	m.router.Get(path, m.wrap(h, mw...))
}

func (m *muxAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	m.router.Post(path, m.wrap(h, mw...))
}

func (m *muxAdapter) Route(pattern string, fn func(Mux)) {
	m.router.Route(pattern, func(cr chi.Router) {
		fn(&muxAdapter{router: cr, app: m.app})
	})
}

func (m *muxAdapter) Use(mw ...Middleware) {
	for _, fn := range mw {
		m.router.Use(m.app.adaptMiddleware(fn))
	}
}

func (m *muxAdapter) Mount(pattern string, h http.Handler) {
	m.router.Mount(pattern, h)
}

// wrap applies route middleware so the first one listed runs first.
func (m *muxAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	for _, fn := range slices.Backward(mw) {
		h = fn(h)
	}
	return m.app.wrapHandler(h)
}

// adaptMiddleware turns a Middleware into chi middleware. The Context
// handed to next carries whatever the middleware stored with Set, and next
// returns the error of the handlers below, so the middleware can inspect
// or replace it before the App answers.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return takeError(c.Request())
			})
			c := newContext(w, r, a)
			a.fail(c, wrapped(c))
		})
	}
}
