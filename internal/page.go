package internal

import "net/http"

// Default templates of the built-in error states.
const (
	NotFoundTemplate = "error_notfound.html"
	ErrorTemplate    = "error_generic.html"
)

// PageKey is the Data key under which a resolved page references itself,
// so templates can reach the page that produced them.
const PageKey = "PAGE"

// PageState is what the renderer sees once the handler is done.
type PageState struct {
	Data     map[string]any
	Name     string
	Title    string
	Template string
	// Status is the response code; zero means 200.
	Status int
}

// Page is a request handler whose output is a renderable state.
// Concrete pages embed Base and override Index.
type Page interface {
	State() *PageState
	Index(c Context, args ...string) error
}

// Base is the embeddable part of every page.
//
//	type About struct {
//	    internal.Base
//	}
//
//	func (p *About) Index(c internal.Context, args ...string) error {
//	    p.SetTitle("About")
//	    p.SetTemplate("about.html")
//	    return nil
//	}
type Base struct {
	state PageState
}

// State returns the page's mutable state.
func (b *Base) State() *PageState {
	if b.state.Data == nil {
		b.state.Data = make(map[string]any)
	}
	return &b.state
}

// Index is the fallback entry point. It renders the not-found state.
func (b *Base) Index(Context, ...string) error {
	return ErrNoIndex
}

// SetTitle sets the title rendered for the page. It is meant to be called
// from the page's own Index and is left out of the Page interface, which
// only exposes what the dispatcher needs.
func (b *Base) SetTitle(title string) {
	b.state.Title = title
}

// SetTemplate names the template the page renders with. Like SetTitle it
// is for the page's own Index and is not part of the Page interface.
func (b *Base) SetTemplate(name string) {
	b.state.Template = name
}

// Assign puts value into the template data under key.
func (b *Base) Assign(key string, value any) {
	b.State().Data[key] = value
}

// Redirect returns a permanent redirect to url ("/" when empty).
// The caller must return it for the redirect to take effect:
//
//	if !ok {
//	    return p.Redirect("/login/")
//	}
func (b *Base) Redirect(url string) error {
	if url == "" {
		url = "/"
	}
	return &Terminate{Code: http.StatusMovedPermanently, URL: url}
}

// NotFound switches the page to its 404 state. Processing continues.
func (b *Base) NotFound(template ...string) {
	b.state.Status = http.StatusNotFound
	b.SetTemplate(pick(template, NotFoundTemplate))
}

// Error exposes errs to the template as "errors" and switches to the error
// template.
func (b *Base) Error(errs any, template ...string) {
	b.Assign("errors", errs)
	b.SetTemplate(pick(template, ErrorTemplate))
}

// RequireSSL returns a redirect to the https version of the current URL
// when the request is not secure, and nil otherwise.
func (b *Base) RequireSSL(c Context) error {
	if c.IsSecure() {
		return nil
	}
	return b.Redirect("https://" + c.Host() + c.RequestURI())
}

func pick(opt []string, def string) string {
	if len(opt) > 0 && opt[0] != "" {
		return opt[0]
	}
	return def
}
