// Package middlewares provides the request middleware used by simplesite
// applications.
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID (or X-Correlation-ID) header or
// generates a UUIDv7, stores it on the request context and echoes it in the
// response. Pair it with RequestIDExtractor so every log line carries it:
//
//	app := simplesite.New(
//	    simplesite.WithLogger("site", middlewares.RequestIDExtractor()),
//	    simplesite.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics into 500 responses. The error handed to the error
// handler wraps a *PanicError:
//
//	if pe, ok := middlewares.AsPanicError(err); ok {
//	    c.LogError("panic", "value", pe.Value)
//	}
//
// # Timeout
//
// Timeout sets a deadline on the request context. A handler that overruns
// it without writing anything fails with 503 wrapping a *TimeoutError.
//
// # Metrics and tracing
//
// Metrics exports Prometheus request counters and latency histograms
// labeled by route pattern. Tracing opens an OpenTelemetry server span per
// request and continues traces from incoming W3C traceparent headers.
//
// # Order
//
//	simplesite.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Tracing(),
//	    middlewares.Metrics(middlewares.WithRegistry(reg)),
//	    middlewares.Recover(),
//	    middlewares.Timeout(10*time.Second),
//	)
//
// RequestID goes first so everything after it can log the ID. Recover sits
// inside Metrics so a panic is still counted as a 500.
package middlewares
