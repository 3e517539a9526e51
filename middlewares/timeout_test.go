package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite/internal"
	"github.com/catdaemon/simplesite/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler", func(t *testing.T) {
		t.Parallel()

		var deadline bool
		rec, err := call(t, httptest.NewRequest(http.MethodGet, "/", nil), middlewares.Timeout(time.Second),
			func(c internal.Context) error {
				_, deadline = c.Deadline()
				return okHandler(c)
			})
		require.NoError(t, err)
		assert.True(t, deadline)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("slow handler without response", func(t *testing.T) {
		t.Parallel()

		_, err := call(t, httptest.NewRequest(http.MethodGet, "/", nil), middlewares.Timeout(20*time.Millisecond),
			func(c internal.Context) error {
				<-c.Done()
				return c.Err()
			})

		httpErr := internal.AsHTTPError(err)
		require.NotNil(t, httpErr)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)

		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		assert.Equal(t, 20*time.Millisecond, te.Duration)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("response already written", func(t *testing.T) {
		t.Parallel()

		rec, err := call(t, httptest.NewRequest(http.MethodGet, "/", nil), middlewares.Timeout(10*time.Millisecond),
			func(c internal.Context) error {
				_ = c.String(http.StatusOK, "partial")
				<-c.Done()
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, "partial", rec.Body.String())
	})

	t.Run("non-positive duration uses default", func(t *testing.T) {
		t.Parallel()

		var remaining time.Duration
		_, err := call(t, httptest.NewRequest(http.MethodGet, "/", nil), middlewares.Timeout(0),
			func(c internal.Context) error {
				dl, _ := c.Deadline()
				remaining = time.Until(dl)
				return nil
			})
		require.NoError(t, err)
		assert.Greater(t, remaining, middlewares.DefaultTimeout-time.Second)
	})

	t.Run("through the app", func(t *testing.T) {
		t.Parallel()

		routes := internal.NewRouter()
		routes.AddRoute("/", func(c internal.Context, _ ...string) error {
			<-c.Done()
			return nil
		})
		rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), routes,
			internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("handler error reaches the app as timeout", func(t *testing.T) {
		t.Parallel()

		routes := internal.NewRouter()
		routes.AddRoute("/", func(c internal.Context, _ ...string) error {
			<-c.Done()
			return c.Err()
		})

		var handled error
		rec := serve(t, httptest.NewRequest(http.MethodGet, "/", nil), routes,
			internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				handled = err
				httpErr := internal.AsHTTPError(err)
				if httpErr == nil {
					return c.NoContent(http.StatusInternalServerError)
				}
				return c.NoContent(httpErr.Code)
			}))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Error(t, handled)
		assert.True(t, middlewares.IsTimeoutError(handled))
		require.ErrorIs(t, handled, context.DeadlineExceeded)
	})
}
