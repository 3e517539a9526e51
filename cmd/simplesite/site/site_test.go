package site_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdaemon/simplesite"
	"github.com/catdaemon/simplesite/cmd/simplesite/site"
	"github.com/catdaemon/simplesite/pkg/db"
	"github.com/catdaemon/simplesite/pkg/record"
	"github.com/catdaemon/simplesite/pkg/view"
)

type fixture struct {
	conn *db.Conn
	site *site.Site
	app  *simplesite.App
}

func newFixture(t *testing.T, opts ...site.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, db.Config{
		Driver:     db.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "site.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, site.Migrate(ctx, conn, "", nil))

	s, err := site.New(conn, record.DialectFor(conn.Driver), opts...)
	require.NoError(t, err)

	appOpts := append(s.Options(),
		simplesite.WithRenderer(view.New(site.Templates(), view.WithLayout("layout.html"))),
	)
	return &fixture{conn: conn, site: s, app: simplesite.New(appOpts...)}
}

func (f *fixture) seed(t *testing.T, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := f.site.Posts.Save(context.Background(), f.site.Posts.FromMap(map[string]any{
			"slug":  strings.ToLower(title),
			"title": title,
			"body":  "Body of " + title,
		}))
		require.NoError(t, err)
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func TestRouter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.Equal(t,
		[]string{"blog/(.+)/", "news/.*", "contact-us/", "admin/", "about/", "/"},
		f.site.Router().Routes(),
	)
	require.NoError(t, f.site.Router().Validate())
}

func TestHomePaging(t *testing.T) {
	t.Parallel()

	f := newFixture(t, site.WithPerPage(2))
	f.seed(t, "Second", "Third", "Fourth")

	tests := []struct {
		name     string
		target   string
		code     int
		contains []string
		excludes []string
	}{
		{
			name:     "first page is newest first",
			target:   "/",
			code:     http.StatusOK,
			contains: []string{"Fourth", "Third", `href="/?page=2"`, "Page 1 of 2"},
			excludes: []string{"Second", "Newer"},
		},
		{
			name:     "second page",
			target:   "/?page=2",
			code:     http.StatusOK,
			contains: []string{"Second", "Hello, world", `href="/?page=1"`, "Page 2 of 2"},
			excludes: []string{"Fourth", "Older"},
		},
		{
			name:     "page past the end",
			target:   "/?page=3",
			code:     http.StatusNotFound,
			contains: []string{"Page not found"},
		},
		{
			name:     "unparsable page falls back to the first",
			target:   "/?page=abc",
			code:     http.StatusOK,
			contains: []string{"Fourth", "Page 1 of 2"},
		},
		{
			name:     "negative page is the first",
			target:   "/?page=-4",
			code:     http.StatusOK,
			contains: []string{"Fourth"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := f.get(tt.target)
			assert.Equal(t, tt.code, rec.Code)
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestPages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name     string
		target   string
		code     int
		location string
		contains []string
	}{
		{
			name:     "post by slug",
			target:   "/blog/hello-world/",
			code:     http.StatusOK,
			contains: []string{"<title>Hello, world | simplesite</title>", "<strong>simplesite</strong>"},
		},
		{
			name:     "trailing slash is optional",
			target:   "/blog/hello-world",
			code:     http.StatusOK,
			contains: []string{"<strong>simplesite</strong>"},
		},
		{
			name:     "unknown slug",
			target:   "/blog/missing/",
			code:     http.StatusNotFound,
			contains: []string{"Page not found"},
		},
		{
			name:     "old news urls move to the blog",
			target:   "/news/2019/05/",
			code:     http.StatusMovedPermanently,
			location: "/blog/",
		},
		{
			name:     "page without index",
			target:   "/about/",
			code:     http.StatusNotFound,
			contains: []string{"Page not found"},
		},
		{
			name:     "no route",
			target:   "/nothing/here/",
			code:     http.StatusNotFound,
			contains: []string{"<title>Not found | simplesite</title>", "Page not found"},
		},
		{
			name:     "admin redirects to https",
			target:   "/admin/",
			code:     http.StatusMovedPermanently,
			location: "https://example.com/admin/",
		},
		{
			name:     "admin over tls",
			target:   "https://example.com/admin/",
			code:     http.StatusOK,
			contains: []string{"1 posts published.", "No messages."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := f.get(tt.target)
			assert.Equal(t, tt.code, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestContact(t *testing.T) {
	t.Parallel()

	t.Run("form", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.get("/contact-us/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<form method="post" action="/contact-us/">`)
		assert.NotContains(t, rec.Body.String(), "has been sent")

		rec = f.get("/contact-us/?sent=1")
		assert.Contains(t, rec.Body.String(), "Thanks, your message has been sent.")
	})

	t.Run("invalid submission keeps the input", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.post("/contact-us/", url.Values{"name": {"Ann"}, "email": {"not-an-email"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "<li>Please enter a valid email address.</li>")
		assert.Contains(t, rec.Body.String(), "<li>The message is empty.</li>")
		assert.Contains(t, rec.Body.String(), `value="Ann"`)

		n, err := f.site.Messages.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("valid submission is stored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := f.post("/contact-us/", url.Values{
			"name":   {"  Ann  "},
			"email":  {"ann@example.com"},
			"body":   {"Hello there"},
			"submit": {"Send"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/contact-us/?sent=1", rec.Header().Get("Location"))

		msgs, err := f.site.Messages.Fetch(context.Background(), 10, 0, "")
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "Ann", msgs[0].Name())
		assert.Equal(t, "ann@example.com", msgs[0].Email())
		assert.False(t, msgs[0].CreatedAt().IsZero())

		rec = f.get("https://example.com/admin/")
		assert.Contains(t, rec.Body.String(), "<td>ann@example.com</td>")
	})

	t.Run("submitted id cannot overwrite a message", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		form := url.Values{"name": {"Ann"}, "email": {"ann@example.com"}, "body": {"first"}}
		require.Equal(t, http.StatusSeeOther, f.post("/contact-us/", form).Code)

		form = url.Values{"id": {"1"}, "name": {"Mallory"}, "email": {"m@example.com"}, "body": {"second"}}
		require.Equal(t, http.StatusSeeOther, f.post("/contact-us/", form).Code)

		n, err := f.site.Messages.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		first, err := f.site.Messages.FromID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Ann", first.Name())
	})
}

func TestFeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, "Second")

	rec := f.get("/feed.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Version string `json:"version"`
		Items   []struct {
			ID    string `json:"id"`
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "https://jsonfeed.org/version/1.1", doc.Version)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "/blog/second/", doc.Items[0].URL)
	assert.Equal(t, "Hello, world", doc.Items[1].Title)
	assert.Equal(t, "1", doc.Items[1].ID)
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.get("/static/css/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusNotFound, f.get("/static/css/").Code)
}

func TestDatabaseFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.conn.Close())

	rec := f.get("/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Internal Server Error</h1>")
}

func TestVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	require.NoError(t, f.site.Verify(ctx))

	_, err := f.conn.ExecContext(ctx, "ALTER TABLE posts DROP COLUMN summary")
	require.NoError(t, err)

	err = f.site.Verify(ctx)
	require.ErrorIs(t, err, site.ErrSchemaDrift)
	assert.Contains(t, err.Error(), "posts: summary")
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	version, err := site.MigrationVersion(context.Background(), f.conn, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}
