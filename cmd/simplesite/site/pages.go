package site

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/catdaemon/simplesite"
	"github.com/catdaemon/simplesite/pkg/record"
)

// homePage lists posts newest first, perPage at a time (?page=N).
type homePage struct {
	simplesite.Base
	site *Site
}

func (p *homePage) Index(c simplesite.Context, _ ...string) error {
	page := max(simplesite.QueryDefault(c, "page", 1), 1)

	pages, err := p.site.Posts.PageCount(c, p.site.perPage)
	if err != nil {
		return err
	}
	if page > pages {
		p.SetTitle("Not found")
		p.NotFound()
		return nil
	}

	posts, err := p.site.Posts.Page(c, page, p.site.perPage)
	if err != nil {
		return err
	}

	p.SetTitle("Latest posts")
	p.SetTemplate("home.html")
	p.Assign("posts", posts)
	p.Assign("page", page)
	p.Assign("pages", pages)
	if page > 1 {
		p.Assign("prev", page-1)
	}
	if page < pages {
		p.Assign("next", page+1)
	}
	return nil
}

// postPage shows one post by slug: blog/<slug>/.
type postPage struct {
	simplesite.Base
	site *Site
}

func (p *postPage) Index(c simplesite.Context, args ...string) error {
	post, err := p.site.Posts.FindBy(c, "slug", simplesite.Arg(args, 0))
	if errors.Is(err, record.ErrNotFound) {
		p.SetTitle("Not found")
		p.NotFound()
		return nil
	}
	if err != nil {
		return err
	}

	p.SetTitle(post.Title())
	p.SetTemplate("post.html")
	p.Assign("post", post)
	return nil
}

type contactPage struct {
	simplesite.Base
	site *Site
}

func (p *contactPage) Index(c simplesite.Context, _ ...string) error {
	p.SetTitle("Contact us")
	p.SetTemplate("contact.html")
	p.Assign("sent", c.Query("sent") != "")
	if c.Request().Method != http.MethodPost {
		return nil
	}

	msg := p.site.Messages.FromMap(c.FormValues())
	// Never let a submission pick the row it upserts.
	msg.Unset("id")
	p.Assign("form", msg)

	if errs := msg.Validate(); len(errs) > 0 {
		p.State().Status = http.StatusUnprocessableEntity
		p.Error(errs, "contact.html")
		return nil
	}

	msg.Set("name", msg.Name())
	msg.Set("email", msg.Email())
	msg.Set("body", msg.Body())
	id, err := p.site.Messages.Save(c, msg)
	if err != nil {
		return err
	}
	c.LogInfo("contact message stored", slog.Any("id", id))

	return &simplesite.Terminate{Code: http.StatusSeeOther, URL: "/contact-us/?sent=1"}
}

// adminPage is only served over https.
type adminPage struct {
	simplesite.Base
	site *Site
}

func (p *adminPage) Index(c simplesite.Context, _ ...string) error {
	if err := p.RequireSSL(c); err != nil {
		return err
	}

	posts, err := p.site.Posts.Count(c)
	if err != nil {
		return err
	}
	messages, err := p.site.Messages.Fetch(c, 20, 0, "id DESC")
	if err != nil {
		return err
	}

	p.SetTitle("Admin")
	p.SetTemplate("admin.html")
	p.Assign("posts", posts)
	p.Assign("messages", messages)
	return nil
}
