package middlewares_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite/internal"
	"github.com/catdaemon/simplesite/middlewares"
	"github.com/catdaemon/simplesite/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid v7", func(t *testing.T) {
		t.Parallel()

		var seen string
		rec, err := call(t, httptest.NewRequest(http.MethodGet, "/", nil), middlewares.RequestID(),
			func(c internal.Context) error {
				seen = middlewares.GetRequestID(c)
				return okHandler(c)
			})
		require.NoError(t, err)

		header := rec.Header().Get("X-Request-ID")
		assert.Equal(t, seen, header)

		id, err := uuid.Parse(header)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
	})

	t.Run("reuses upstream header in order", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		rec, _ := call(t, req, middlewares.RequestID(), okHandler)
		assert.Equal(t, "corr-1", rec.Header().Get("X-Request-ID"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		req.Header.Set("X-Request-ID", "req-1")
		rec, _ = call(t, req, middlewares.RequestID(), okHandler)
		assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		mw := middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)
		rec, _ := call(t, req, mw, okHandler)
		assert.Equal(t, "fixed", rec.Header().Get("X-Trace"))
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("outside the middleware", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, middlewares.GetRequestID(context.Background()))
	})
}

func TestNewRequestIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := middlewares.NewRequestID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithConfig(logger.Config{Level: "debug", Format: "json"}, &buf, middlewares.RequestIDExtractor())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	routes := internal.NewRouter()
	routes.AddRoute("/", func(c internal.Context, _ ...string) error {
		c.LogInfo("handled")
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(t, req, routes,
		internal.WithCustomLogger(log),
		internal.WithMiddleware(middlewares.RequestID()),
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}
