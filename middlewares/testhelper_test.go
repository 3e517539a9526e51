package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/catdaemon/simplesite/internal"
)

// call runs h wrapped by mw inside a real request and returns the error the
// chain produced, before the App handles it.
func call(t *testing.T, req *http.Request, mw internal.Middleware, h internal.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var err error
	routes := internal.NewRouter()
	routes.AddRoute(".*", func(c internal.Context, _ ...string) error {
		err = mw(h)(c)
		return nil
	})

	rec := httptest.NewRecorder()
	internal.New(internal.WithRoutes(routes)).ServeHTTP(rec, req)
	return rec, err
}

// serve runs req through an App with the given routes and options.
func serve(t *testing.T, req *http.Request, routes *internal.Router, opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	internal.New(append([]internal.Option{internal.WithRoutes(routes)}, opts...)...).ServeHTTP(rec, req)
	return rec
}

func okHandler(c internal.Context) error {
	return c.String(http.StatusOK, "ok")
}
