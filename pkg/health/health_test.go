package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite/pkg/health"
)

func ok(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func slow(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.ReadinessHandler(health.Checks{"db": ok})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("failure lists checks", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h := health.ReadinessHandler(health.Checks{"db": down, "cache": down, "disk": ok})
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable: cache, db", rec.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/?format=json", nil)
		health.ReadinessHandler(health.Checks{"db": down, "disk": ok})(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp health.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["db"].Error)
		assert.Equal(t, health.StatusHealthy, resp.Checks["disk"].Status)
	})

	t.Run("accept header", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		health.ReadinessHandler(nil)(rec, req)

		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		resp, err := health.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		resp, err := health.Run(context.Background(), health.Checks{"db": down})
		require.ErrorIs(t, err, health.ErrCheckFailed)
		assert.NotErrorIs(t, err, health.ErrCheckTimeout)
		assert.Equal(t, []string{"db"}, resp.Failed())
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		resp, err := health.Run(context.Background(), health.Checks{"slow": slow, "fast": ok},
			health.WithTimeout(20*time.Millisecond))
		require.ErrorIs(t, err, health.ErrCheckFailed)
		require.ErrorIs(t, err, health.ErrCheckTimeout)
		assert.Equal(t, []string{"slow"}, resp.Failed())
	})
}
