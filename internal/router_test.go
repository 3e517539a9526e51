package internal_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite/internal"
)

// tag returns a handler that records its name and arguments.
func tag(name string, got *[]string) internal.RouteFunc {
	return func(_ internal.Context, args ...string) error {
		*got = append([]string{name}, args...)
		return nil
	}
}

func TestRouterFirstMatchWins(t *testing.T) {
	t.Parallel()

	var got []string
	r := internal.NewRouter()
	r.AddRoute("users/(.+)/", tag("h1", &got))
	r.AddRoute("users/list/", tag("h2", &got))

	ok, err := r.Route(nil, "users/list/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"h1", "list"}, got)
}

func TestRouterRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		routes []string
		path   string
		want   []string
	}{
		{name: "root", routes: []string{"/"}, path: "/", want: []string{"/"}},
		{name: "empty path is root", routes: []string{"/"}, path: "", want: []string{"/"}},
		{name: "trailing slash added", routes: []string{"about/"}, path: "about", want: []string{"about/"}},
		{name: "wildcard capture", routes: []string{"blog/.+/"}, path: "blog/hello-world", want: []string{"blog/.+/", "hello-world"}},
		{name: "several captures in order", routes: []string{"archive/.+/.+/"}, path: "archive/2024/05/", want: []string{"archive/.+/.+/", "2024", "05"}},
		{name: "plain regex does not capture", routes: []string{"page/[0-9]+/"}, path: "page/7/", want: []string{"page/[0-9]+/"}},
		{name: "query is stripped", routes: []string{"blog/"}, path: "blog?page=2", want: []string{"blog/"}},
		{name: "query stripped before slash", routes: []string{"blog/.+/"}, path: "blog/x?ref=home", want: []string{"blog/.+/", "x"}},
		{name: "skips non-matching", routes: []string{"a/", "b/", "c/"}, path: "c/", want: []string{"c/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			r := internal.NewRouter()
			for _, p := range tt.routes {
				r.AddRoute(p, tag(p, &got))
			}

			ok, err := r.Route(nil, tt.path)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouterNoMatch(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.AddRoute("blog/", func(internal.Context, ...string) error { return nil })

	for _, path := range []string{"myblog/", "blog/extra/", "other"} {
		ok, err := r.Route(nil, path)
		require.NoError(t, err)
		assert.False(t, ok, path)
	}
}

func TestRouterPropagatesHandlerError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	r := internal.NewRouter()
	r.AddRoute("/", func(internal.Context, ...string) error { return errBoom })

	ok, err := r.Route(nil, "")
	assert.True(t, ok)
	require.ErrorIs(t, err, errBoom)
}

func TestRouterNormalize(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	legacy := internal.NewRouter(internal.WithLegacyNormalization())

	for _, p := range []string{"a", "a/b", "blog/post", "x?y=1", "deep/path/here"} {
		assert.Equal(t, r.Normalize(p), r.Normalize(p+"/"), p)
	}

	assert.Equal(t, "/", r.Normalize(""))
	assert.Equal(t, "/", r.Normalize("/"))
	assert.Equal(t, "/", r.Normalize("?x=1"))
	assert.Equal(t, "blog/", r.Normalize("blog?page=2"))

	assert.Equal(t, "blog?page=2/", legacy.Normalize("blog?page=2"))
	assert.Equal(t, "/", legacy.Normalize(""))
}

func TestRouterLegacyNormalization(t *testing.T) {
	t.Parallel()

	var got []string
	r := internal.NewRouter(internal.WithLegacyNormalization())
	r.AddRoute("blog/", tag("plain", &got))
	r.AddRoute(`blog\?page=.+/`, tag("query", &got))

	ok, err := r.Route(nil, "blog?page=2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"query"}, got)
}

func TestRouterMalformedPattern(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	var got []string
	r := internal.NewRouter(internal.WithRouterLogger(log))
	r.AddRoute("broken/(/", tag("broken", &got))
	r.AddRoute(`(\w)\1/`, tag("backref", &got))
	r.AddRoute("broken/.+/", tag("fallback", &got))

	for range 3 {
		ok, err := r.Route(nil, "broken/x/")
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, []string{"fallback", "x"}, got)
	assert.Equal(t, 2, strings.Count(logs.String(), "route pattern does not compile"))

	err := r.Validate()
	require.ErrorIs(t, err, internal.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "broken/(/")
	assert.Equal(t, 2, strings.Count(logs.String(), "route pattern does not compile"))
}

func TestRouterValidateClean(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.AddRoute("/", nil)
	r.AddRoute("blog/.+/", nil)
	require.NoError(t, r.Validate())
}

func TestRouterDuplicatePattern(t *testing.T) {
	t.Parallel()

	var got []string
	r := internal.NewRouter()
	r.AddRoute("a/", tag("first", &got))
	r.AddRoute(".+/", tag("catch-all", &got))
	r.AddRoute("a/", tag("replaced", &got))

	assert.Equal(t, []string{"a/", ".+/"}, r.Routes())

	ok, err := r.Route(nil, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"replaced"}, got)
}

func TestRouterSeal(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.AddRoute("/", nil)
	r.Seal()
	r.Seal()

	require.PanicsWithError(t, `router: routes cannot be added after the router is sealed: "late/"`, func() {
		r.AddRoute("late/", nil)
	})
	assert.Equal(t, []string{"/"}, r.Routes())
}

func TestRouterConcurrentMatch(t *testing.T) {
	t.Parallel()

	r := internal.NewRouter()
	r.AddRoute("blog/.+/", func(internal.Context, ...string) error { return nil })
	r.AddRoute("/", func(internal.Context, ...string) error { return nil })
	r.Seal()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, args, ok := r.Match("blog/post-" + string(rune('a'+i%26)))
			assert.True(t, ok)
			assert.Len(t, args, 1)
		}()
	}
	wg.Wait()
}
