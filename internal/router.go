package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/catdaemon/simplesite/pkg/logger"
)

// RouteFunc handles a matched route. args holds the path segments captured
// by wildcard segments of the pattern, left to right.
type RouteFunc func(c Context, args ...string) error

// Wildcard pattern segments. A segment equal to either token captures the
// path segment at the same position.
const (
	wildcard        = ".+"
	wildcardCapture = "(.+)"
)

type route struct {
	pattern string
	handler RouteFunc

	once sync.Once
	re   *regexp.Regexp
	err  error
}

// compiled returns the anchored regexp, compiling it on first use.
// A compile error is remembered and logged once.
func (rt *route) compiled(log *slog.Logger) (*regexp.Regexp, error) {
	rt.once.Do(func() {
		rt.re, rt.err = regexp.Compile("^(?:" + rt.pattern + ")$")
		if rt.err != nil {
			log.Warn("route pattern does not compile, skipping",
				slog.String("pattern", rt.pattern),
				slog.String("error", rt.err.Error()),
			)
		}
	})
	return rt.re, rt.err
}

// Router is an ordered table of regex path patterns. The first pattern
// that matches the whole normalized path wins, so register specific
// patterns before general ones.
//
// Routes are added during startup. After Seal the table is read-only and
// safe for concurrent use.
type Router struct {
	mu     sync.RWMutex
	routes []*route
	index  map[string]int
	sealed bool

	logger     *slog.Logger
	stripQuery bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger used to report malformed patterns.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLegacyNormalization keeps query strings in the matched path.
// Patterns then see "blog/?page=2" as-is, as the first generation of
// sites built on this router expected.
func WithLegacyNormalization() RouterOption {
	return func(r *Router) {
		r.stripQuery = false
	}
}

// NewRouter creates an empty route table.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		index:      make(map[string]int),
		logger:     logger.NewNope(),
		stripQuery: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddRoute binds h to pattern. pattern is an unanchored regular expression
// body matched against the normalized path, e.g. "blog/.+/". It is not
// validated here; see Validate.
//
// Adding a pattern that is already registered replaces its handler and
// keeps its original position. AddRoute panics once the router is sealed.
func (r *Router) AddRoute(pattern string, h RouteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Errorf("%w: %q", ErrRouterSealed, pattern))
	}
	if i, ok := r.index[pattern]; ok {
		r.routes[i] = &route{pattern: pattern, handler: h}
		return
	}
	r.index[pattern] = len(r.routes)
	r.routes = append(r.routes, &route{pattern: pattern, handler: h})
}

// Seal makes the table read-only. It is idempotent.
func (r *Router) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Normalize turns a request path into the form patterns are matched
// against: query string removed (unless legacy), "" becomes "/", and every
// other path gains a trailing slash.
func (r *Router) Normalize(requestPath string) string {
	p := requestPath
	if r.stripQuery {
		if i := strings.IndexByte(p, '?'); i >= 0 {
			p = p[:i]
		}
	}
	if p == "" {
		return "/"
	}
	if p != "/" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Match finds the handler for requestPath without invoking it.
func (r *Router) Match(requestPath string) (RouteFunc, []string, bool) {
	rt, args := r.match(requestPath)
	if rt == nil {
		return nil, nil, false
	}
	return rt.handler, args, true
}

// Route dispatches requestPath to the first matching handler and reports
// whether one matched. The handler's error is returned as-is.
func (r *Router) Route(c Context, requestPath string) (bool, error) {
	rt, args := r.match(requestPath)
	if rt == nil {
		return false, nil
	}
	recordMatch(c, rt.pattern)
	return true, rt.handler(c, args...)
}

func (r *Router) match(requestPath string) (*route, []string) {
	path := r.Normalize(requestPath)

	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	for _, rt := range routes {
		re, err := rt.compiled(r.logger)
		if err != nil || !re.MatchString(path) {
			continue
		}
		return rt, captures(rt.pattern, path)
	}
	return nil, nil
}

// Routes returns the registered patterns in match order.
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.pattern
	}
	return out
}

// Validate compiles every pattern and returns the joined compile errors.
// Routing skips malformed patterns regardless; this is a startup check.
func (r *Router) Validate() error {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	var errs []error
	for _, rt := range routes {
		if _, err := rt.compiled(r.logger); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, rt.pattern, err))
		}
	}
	return errors.Join(errs...)
}

// captures picks the path segments sitting under wildcard segments of the
// pattern. Both sides are split on "/" and compared by position.
func captures(pattern, path string) []string {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	args := make([]string, 0, 2)
	for i, part := range patternParts {
		if part != wildcard && part != wildcardCapture {
			continue
		}
		if i < len(pathParts) {
			args = append(args, pathParts[i])
		}
	}
	return args
}
