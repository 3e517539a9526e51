package site

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/catdaemon/simplesite"
)

const feedSize = 20

type feedItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"date_published,omitzero"`
}

type feed struct {
	Version string     `json:"version"`
	Title   string     `json:"title"`
	Items   []feedItem `json:"items"`
}

// Routes registers the explicit routes that sit in front of the page table.
func (s *Site) Routes(m simplesite.Mux) {
	m.GET("/feed.json", s.feed)
}

// feed serves the latest posts as a JSON Feed 1.1 document.
func (s *Site) feed(c simplesite.Context) error {
	posts, err := s.Posts.Fetch(c, feedSize, 0, "")
	if err != nil {
		return err
	}

	out := feed{
		Version: "https://jsonfeed.org/version/1.1",
		Title:   "simplesite",
		Items:   make([]feedItem, 0, len(posts)),
	}
	for _, p := range posts {
		out.Items = append(out.Items, feedItem{
			ID:        p.String("id"),
			URL:       p.URL(),
			Title:     p.Title(),
			Summary:   p.Summary(),
			Published: p.PublishedAt(),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// HandleError renders failed requests through the site's error templates.
func (s *Site) HandleError(c simplesite.Context, err error) error {
	code, message := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	if httpErr := simplesite.AsHTTPError(err); httpErr != nil {
		code, message = httpErr.Code, httpErr.Message
	}
	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c, "request failed",
			slog.String("path", c.Request().URL.Path),
			slog.Any("error", err),
		)
	}

	tmpl := simplesite.ErrorTemplate
	if code == http.StatusNotFound {
		tmpl = simplesite.NotFoundTemplate
	}
	return c.Render(code, tmpl, &simplesite.PageState{
		Title:  http.StatusText(code),
		Status: code,
		Data:   map[string]any{"errors": []string{message}},
	})
}

// NotFound answers for paths no route matched.
func (s *Site) NotFound(c simplesite.Context) error {
	return c.Render(http.StatusNotFound, simplesite.NotFoundTemplate, &simplesite.PageState{
		Title:  "Not found",
		Status: http.StatusNotFound,
		Data:   map[string]any{},
	})
}
