package site

import (
	"time"

	"github.com/catdaemon/simplesite/pkg/record"
)

// Post is a blog entry.
type Post struct {
	record.Record
}

func (p *Post) ID() int64       { return p.Int64("id") }
func (p *Post) Slug() string    { return p.String("slug") }
func (p *Post) Title() string   { return p.String("title") }
func (p *Post) Body() string    { return p.String("body") }
func (p *Post) Summary() string { return p.String("summary") }

// PublishedAt is the zero time when unset.
func (p *Post) PublishedAt() time.Time { return p.Time("published_at") }

// URL is the post's canonical path.
func (p *Post) URL() string { return "/blog/" + p.Slug() + "/" }

var postSchema = record.Schema{
	Table:   "posts",
	Columns: []string{"id", "slug", "title", "summary", "body", "published_at"},
}
