package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"

	"github.com/yuin/goldmark"
)

// Renderer executes html/template files read from an fs.FS.
// Parsed template sets are cached per page name; the cache is safe for
// concurrent renders.
type Renderer struct {
	fsys     fs.FS
	layout   string
	partials string
	reload   bool
	funcs    template.FuncMap
	md       goldmark.Markdown

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// New creates a renderer over fsys.
//
// Example:
//
//	//go:embed templates
//	var templates embed.FS
//
//	sub, _ := fs.Sub(templates, "templates")
//	r := view.New(sub, view.WithLayout("layout.html"), view.WithPartials("partials/*.html"))
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:  fsys,
		md:    newMarkdown(),
		cache: make(map[string]*template.Template),
	}
	r.funcs = builtinFuncs(r.md)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the template file name with data and writes the result
// to w. Output is only written when execution succeeds.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}

	entry := path.Base(name)
	if r.layout != "" {
		entry = path.Base(r.layout)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Has reports whether the template file exists.
func (r *Renderer) Has(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	_, err := fs.Stat(r.fsys, name)
	return err == nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if r.reload {
		return r.parse(name)
	}

	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := r.parse(name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = tmpl
	return tmpl, nil
}

// parse builds the template set for one page: layout, partials, then the
// page itself so its blocks win.
func (r *Renderer) parse(name string) (*template.Template, error) {
	var files []string
	if r.layout != "" {
		files = append(files, r.layout)
	}
	if r.partials != "" {
		matches, err := fs.Glob(r.fsys, r.partials)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseFailed, r.partials, err)
		}
		files = append(files, matches...)
	}
	files = append(files, name)

	tmpl, err := template.New(path.Base(name)).Funcs(r.funcs).ParseFS(r.fsys, files...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrTemplateNotFound, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailed, name, err)
	}
	return tmpl, nil
}
