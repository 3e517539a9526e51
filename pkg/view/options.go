package view

import "html/template"

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayout wraps every page in the named layout file. The layout
// executes the page through {{template "content" .}}, which each page
// template defines.
func WithLayout(name string) Option {
	return func(r *Renderer) {
		r.layout = name
	}
}

// WithPartials parses every file matching the glob pattern alongside each
// page, for shared {{define}} blocks. A pattern that matches nothing is
// ignored.
func WithPartials(pattern string) Option {
	return func(r *Renderer) {
		r.partials = pattern
	}
}

// WithReload re-parses templates on every render. Meant for development
// against an os.DirFS.
func WithReload() Option {
	return func(r *Renderer) {
		r.reload = true
	}
}

// WithFuncs adds template functions. They override the built-ins of the
// same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		for k, v := range funcs {
			r.funcs[k] = v
		}
	}
}
