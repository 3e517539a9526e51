package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/catdaemon/simplesite/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Handlers see it through
// the Context itself, so database calls made with c stop at the deadline.
//
// The handler runs on the request goroutine and is never abandoned. If it
// returns after the deadline without having written a response, the
// request fails with 503 wrapping a *TimeoutError.
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			parent := c.Context()
			ctx, cancel := context.WithTimeout(parent, d)
			defer cancel()

			c.SetContext(ctx)
			err := next(c)
			c.SetContext(parent)

			if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Written() {
				return err
			}
			if internal.IsTerminate(err) {
				return err
			}

			c.LogWarn("request timeout", slog.Duration("timeout", d))
			return internal.NewHTTPError(http.StatusServiceUnavailable, "",
				internal.WithError(errors.Join(&TimeoutError{Duration: d}, err)))
		}
	}
}
