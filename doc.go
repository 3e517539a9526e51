// Package simplesite is a small web framework for content sites.
//
// Requests are routed through an ordered table of regular expressions.
// The first pattern that matches the whole normalized path wins, and the
// path segments under wildcard segments of the pattern are handed to the
// handler:
//
//	routes := simplesite.NewRouter()
//	routes.AddRoute("blog/.+/", simplesite.PageRoute(pages, "blog"))
//	routes.AddRoute("/", simplesite.PageRoute(pages, "home"))
//
// Paths are normalized before matching: the query string is dropped, ""
// becomes "/" and everything else gains a trailing slash, so "blog/hello"
// and "blog/hello/" are the same route.
//
// # Pages
//
// A page embeds Base, fills in its state and names a template:
//
//	type Blog struct {
//	    simplesite.Base
//	    posts *record.Mapper[*Post]
//	}
//
//	func (p *Blog) Index(c simplesite.Context, args ...string) error {
//	    post, err := p.posts.FindBy(c, "slug", simplesite.Arg(args, 0))
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
// Returning p.Redirect(url) or p.RequireSSL(c) ends the request with a
// redirect and skips rendering. A page without its own Index renders the
// not-found template with status 404.
//
// # Application
//
// App wires the route table to chi. Health probes, static files, mounted
// handlers and Mux routes declared by a Handler are served by chi first;
// everything else goes through the route table:
//
//	app := simplesite.New(
//	    simplesite.WithRoutes(routes),
//	    simplesite.WithRenderer(view.New(templates, view.WithLayout("layout.html"))),
//	    simplesite.WithHealthChecks(),
//	    simplesite.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	)
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
package simplesite
