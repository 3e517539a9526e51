// Package view renders html/template files from an fs.FS.
//
// A [Renderer] parses a page template together with an optional layout and
// shared partials, caches the parsed set, and executes it into a buffer so
// that a failing template never produces half a response.
//
// Templates get four helpers besides the html/template built-ins:
//
//	{{ .Data.post.body | markdown }}   goldmark + bluemonday UGC policy
//	{{ .Title | plain }}               strips all tags
//	{{ .Name | upper }}  {{ .Name | lower }}
//
// *Renderer satisfies the page dispatcher's Renderer interface directly:
// the dispatcher calls Render with the page's template name and state.
package view
