package middlewares

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/catdaemon/simplesite/internal"
)

const defaultTracerName = "github.com/catdaemon/simplesite"

type tracingConfig struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
	tracerName string
	filter     func(c internal.Context) bool
}

// TracingOption configures Tracing.
type TracingOption func(*tracingConfig)

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) {
		if tp != nil {
			c.provider = tp
		}
	}
}

// WithPropagator sets how incoming trace headers are read. Defaults to the
// global propagator, or W3C trace context when none is installed.
func WithPropagator(p propagation.TextMapPropagator) TracingOption {
	return func(c *tracingConfig) {
		if p != nil {
			c.propagator = p
		}
	}
}

func WithTracerName(name string) TracingOption {
	return func(c *tracingConfig) {
		if name != "" {
			c.tracerName = name
		}
	}
}

// WithTraceFilter skips tracing for requests where fn returns false.
func WithTraceFilter(fn func(c internal.Context) bool) TracingOption {
	return func(c *tracingConfig) {
		c.filter = fn
	}
}

// Tracing opens a server span per request and installs it on the request
// context, so spans started by handlers and database calls become its
// children. The span is renamed to the matched route once it is known.
func Tracing(opts ...TracingOption) internal.Middleware {
	cfg := tracingConfig{
		provider:   otel.GetTracerProvider(),
		propagator: otel.GetTextMapPropagator(),
		tracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.propagator.Fields()) == 0 {
		cfg.propagator = propagation.TraceContext{}
	}
	tracer := cfg.provider.Tracer(cfg.tracerName)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if cfg.filter != nil && !cfg.filter(c) {
				return next(c)
			}

			r := c.Request()
			parent := cfg.propagator.Extract(c.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(parent, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("server.address", r.Host),
				),
			)
			defer span.End()

			c.SetContext(ctx)
			err := next(c)

			route := routeLabel(c)
			code := statusOf(c, err)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", code),
			)
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request.id", id))
			}

			switch {
			case err != nil && !internal.IsTerminate(err) && code >= 500:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case code >= 500:
				span.SetStatus(codes.Error, "")
			}
			return err
		}
	}
}

// SpanFromContext returns the request's server span, or a no-op span.
func SpanFromContext(c internal.Context) trace.Span {
	return trace.SpanFromContext(c)
}
