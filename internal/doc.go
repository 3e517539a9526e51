// Package internal holds the core of simplesite. Import the root package,
// which re-exports the public API.
//
// # Routing
//
// [Router] is an ordered list of regular expressions. A request path is
// normalized (query dropped, trailing slash added) and matched against each
// pattern, anchored at both ends, in registration order. The first match
// wins even when a later pattern is more specific:
//
//	r.AddRoute("users/(.+)/", showUser)   // also serves "users/list/"
//	r.AddRoute("users/list/", listUsers)  // never reached
//
// Pattern segments equal to ".+" or "(.+)" capture the path segment at the
// same position; the captures are passed to the handler in order.
//
// # Pages
//
// A [Page] is built per request from a factory registered in [Pages] under
// a normalized name ("Contact Us!" and "contact us" are the same page).
// Handlers fill the page's [PageState] through [Base] and the App renders
// it with the configured [Renderer]:
//
//	type Blog struct {
//	    internal.Base
//	    posts *record.Mapper[*Post]
//	}
//
//	func (p *Blog) Index(c internal.Context, args ...string) error {
//	    post, err := p.posts.FromID(c, internal.Arg(args, 0))
//	    if errors.Is(err, record.ErrNotFound) {
//	        p.NotFound()
//	        return nil
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    p.SetTitle(post.Title())
//	    p.SetTemplate("post.html")
//	    p.Assign("post", post)
//	    return nil
//	}
//
// Redirects are values: Base.Redirect and Base.RequireSSL return a
// [*Terminate] that the handler passes up. The App writes the redirect and
// never calls the renderer.
//
// # App
//
// [App] wraps a chi router. Health probes, static files, mounts and
// explicit [Mux] routes are served by chi; everything else falls through to
// the regex [Router]. Middleware wraps both.
package internal
