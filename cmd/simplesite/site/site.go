// Package site is the demo web site served by the simplesite command: a
// paged blog, a contact form and a small admin view, backed by the record
// mapper and rendered through html/template.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catdaemon/simplesite"
	"github.com/catdaemon/simplesite/pkg/logger"
	"github.com/catdaemon/simplesite/pkg/record"
)

// DefaultPerPage is the number of posts on one home page.
const DefaultPerPage = 10

var (
	//go:embed templates/*.html
	templateFiles embed.FS

	//go:embed migrations
	migrationFiles embed.FS

	//go:embed public
	publicFiles embed.FS
)

// Templates returns the embedded page templates.
func Templates() fs.FS {
	sub, _ := fs.Sub(templateFiles, "templates")
	return sub
}

// Migrations returns the embedded migrations, one directory per goose
// dialect ("postgres", "sqlite3").
func Migrations() fs.FS {
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return sub
}

// Site holds the mappers and pages of the demo site.
type Site struct {
	Posts    *record.Mapper[*Post]
	Messages *record.Mapper[*Message]

	pages   *simplesite.Pages
	perPage int
	logger  *slog.Logger
}

// Option configures a Site.
type Option func(*Site)

// WithPerPage sets the home page size. Values below 1 are ignored.
func WithPerPage(n int) Option {
	return func(s *Site) {
		if n > 0 {
			s.perPage = n
		}
	}
}

// WithLogger sets the logger used by the pages and the mappers.
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds the site on top of db. dialect must match the driver behind
// db, see record.DialectFor.
func New(db record.DB, dialect record.Dialect, opts ...Option) (*Site, error) {
	s := &Site{
		perPage: DefaultPerPage,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}

	posts, err := record.New(db, dialect, postSchema, func() *Post { return &Post{} },
		record.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	messages, err := record.New(db, dialect, messageSchema, func() *Message { return &Message{} },
		record.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.Posts, s.Messages = posts, messages

	s.pages = simplesite.NewPages()
	s.pages.Register("Home", func() simplesite.Page { return &homePage{site: s} })
	s.pages.Register("Blog", func() simplesite.Page { return &postPage{site: s} })
	s.pages.Register("Contact Us", func() simplesite.Page { return &contactPage{site: s} })
	s.pages.Register("Admin", func() simplesite.Page { return &adminPage{site: s} })
	s.pages.Register("About", func() simplesite.Page { return &simplesite.Base{} })
	return s, nil
}

// Pages returns the page registry.
func (s *Site) Pages() *simplesite.Pages {
	return s.pages
}

// Router returns the site's route table. Order matters: the first pattern
// that matches wins, so the catch-all home route comes last.
func (s *Site) Router(opts ...simplesite.RouterOption) *simplesite.Router {
	r := simplesite.NewRouter(opts...)
	r.AddRoute("blog/(.+)/", simplesite.PageRoute(s.pages, "blog"))
	r.AddRoute("news/.*", moved("/blog/"))
	r.AddRoute("contact-us/", simplesite.PageRoute(s.pages, "contact us"))
	r.AddRoute("admin/", simplesite.PageRoute(s.pages, "admin"))
	r.AddRoute("about/", simplesite.PageRoute(s.pages, "about"))
	r.AddRoute("/", simplesite.PageRoute(s.pages, "home"))
	return r
}

// Options returns the App options that mount the site: the route table,
// the feed handler, error pages and static assets under /static/.
func (s *Site) Options(opts ...simplesite.RouterOption) []simplesite.Option {
	return []simplesite.Option{
		simplesite.WithRoutes(s.Router(opts...)),
		simplesite.WithHandlers(s),
		simplesite.WithErrorHandler(s.HandleError),
		simplesite.WithNotFoundHandler(s.NotFound),
		simplesite.WithStaticFiles("/static/", publicFiles, "public"),
	}
}

// Verify reports manifest columns missing from the live tables.
func (s *Site) Verify(ctx context.Context) error {
	checks := []struct {
		table  string
		verify func(context.Context) ([]string, error)
	}{
		{postSchema.Table, s.Posts.Verify},
		{messageSchema.Table, s.Messages.Verify},
	}

	var errs []error
	for _, check := range checks {
		missing, err := check.verify(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%w: %s: %s", ErrSchemaDrift, check.table, strings.Join(missing, ", ")))
		}
	}
	return errors.Join(errs...)
}

func moved(url string) simplesite.RouteFunc {
	return func(simplesite.Context, ...string) error {
		return &simplesite.Terminate{Code: http.StatusMovedPermanently, URL: url}
	}
}
