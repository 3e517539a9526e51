package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// PageRoute returns a route handler that resolves the named page, runs its
// Index with the captured path segments and renders the resulting state.
//
//	router.AddRoute("blog/.+/", internal.PageRoute(pages, "blog"))
//
// A page without its own Index renders its not-found state. Rendering is
// skipped when Index already wrote a response or returned an error,
// including a *Terminate.
func PageRoute(pages *Pages, name string) RouteFunc {
	return func(c Context, args ...string) error {
		page, err := pages.Resolve(name)
		if err != nil {
			return ErrNotFound("", WithError(err))
		}

		if err := page.Index(c, args...); err != nil {
			if !errors.Is(err, ErrNoIndex) {
				return err
			}
			st := page.State()
			st.Status = http.StatusNotFound
			st.Template = NotFoundTemplate
		}

		if c.Written() {
			return nil
		}
		return c.RenderPage(page)
	}
}

// dispatcher feeds every request that no chi route claimed into the regex
// router. The path handed over is the request URI without its leading
// slash, query included; the router decides whether to strip the query.
// Absolute-form targets such as "http://host/about/" are reduced to their
// path and query first.
func dispatcher(routes *Router, notFound HandlerFunc) HandlerFunc {
	return func(c Context) error {
		uri := c.RequestURI()
		if !strings.HasPrefix(uri, "/") {
			uri = c.Request().URL.RequestURI()
		}
		path := strings.TrimPrefix(uri, "/")

		matched, err := routes.Route(c, path)
		if err != nil {
			return err
		}
		if !matched {
			c.LogDebug("no route matched", slog.String("path", path))
			return notFound(c)
		}
		return nil
	}
}

func defaultNotFound(c Context) error {
	return ErrNotFound("")
}
