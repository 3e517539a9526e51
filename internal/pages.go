package internal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// PageFactory builds a fresh page for one request.
type PageFactory func() Page

// Pages maps normalized page names to factories. It is filled at startup
// and read concurrently afterwards.
type Pages struct {
	mu        sync.RWMutex
	factories map[string]PageFactory
}

// NewPages creates an empty registry.
func NewPages() *Pages {
	return &Pages{factories: make(map[string]PageFactory)}
}

// NormalizePageName lowercases name and drops every character outside
// [a-z0-9 ]. "Contact Us!" becomes "contact us".
func NormalizePageName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, name)
}

// Register binds a factory to the normalized form of name, replacing any
// previous binding.
func (p *Pages) Register(name string, factory PageFactory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories[NormalizePageName(name)] = factory
}

// Resolve builds the page registered under name. The page's state gets its
// normalized name and a self-reference under Data[PageKey].
func (p *Pages) Resolve(name string) (Page, error) {
	key := NormalizePageName(name)

	p.mu.RLock()
	factory, ok := p.factories[key]
	p.mu.RUnlock()
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, key)
	}

	page := factory()
	st := page.State()
	st.Name = key
	if st.Data == nil {
		st.Data = make(map[string]any)
	}
	st.Data[PageKey] = page
	return page, nil
}

// Names returns the registered page names, sorted.
func (p *Pages) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.factories))
}
