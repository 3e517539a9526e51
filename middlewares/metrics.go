package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/catdaemon/simplesite/internal"
)

// UnmatchedRoute labels requests that no route claimed. Raw paths are never
// used as labels.
const UnmatchedRoute = "unmatched"

type metricsConfig struct {
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
	buckets     []float64
	registry    prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*metricsConfig)

// WithNamespace sets the metric namespace. Defaults to "simplesite".
func WithNamespace(namespace string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = namespace
	}
}

func WithSubsystem(subsystem string) MetricsOption {
	return func(c *metricsConfig) {
		c.subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *metricsConfig) {
		c.constLabels = labels
	}
}

// WithBuckets sets the latency histogram buckets, in seconds.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *metricsConfig) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}

// WithRegistry registers the collectors on reg instead of the default
// registerer. Each registry accepts one Metrics middleware.
func WithRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// Metrics records request count, latency and in-flight requests.
//
// Requests are labeled by the route that served them: the regex pattern for
// pages, the chi pattern for Mux handlers and mounts, or UnmatchedRoute.
//
//	reg := prometheus.NewRegistry()
//	simplesite.New(
//	    simplesite.WithMiddleware(middlewares.Metrics(middlewares.WithRegistry(reg))),
//	    simplesite.WithMount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
//	)
//
// Metrics panics if its collectors are already registered on the registry.
func Metrics(opts ...MetricsOption) internal.Middleware {
	cfg := metricsConfig{
		namespace: "simplesite",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.registry)
	m := &httpMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status code.",
			ConstLabels: cfg.constLabels,
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route and method.",
			ConstLabels: cfg.constLabels,
			Buckets:     cfg.buckets,
		}, []string{"route", "method"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "http_requests_in_flight",
			Help:        "HTTP requests currently being served.",
			ConstLabels: cfg.constLabels,
		}),
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			err := next(c)

			route := routeLabel(c)
			method := c.Request().Method
			m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(route, method, strconv.Itoa(statusOf(c, err))).Inc()
			return err
		}
	}
}

func routeLabel(c internal.Context) string {
	if p := internal.MatchedPattern(c); p != "" {
		return p
	}
	if rctx := chi.RouteContext(c.Request().Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" && p != "/*" {
			return p
		}
	}
	return UnmatchedRoute
}

// statusOf predicts the status the App will answer with. Errors are written
// after the middleware chain returns, so the writer does not know it yet.
func statusOf(c internal.Context, err error) int {
	if c.Written() || err == nil {
		if rw := c.ResponseWriter(); rw != nil {
			return rw.Status()
		}
		return http.StatusOK
	}
	if t := internal.AsTerminate(err); t != nil {
		return t.Code
	}
	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
