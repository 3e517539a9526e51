package view

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	policiesOnce sync.Once
)

func policies() (ugc, strict *bluemonday.Policy) {
	policiesOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		ugcPolicy.RequireNoFollowOnLinks(true)
		strictPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, strictPolicy
}

// Markdown converts user supplied markdown into sanitized HTML.
// goldmark omits raw HTML in the source, and the output still goes through
// a UGC policy that adds rel="nofollow" to links.
func Markdown(md goldmark.Markdown, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	ugc, _ := policies()
	return template.HTML(ugc.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// Plain strips every HTML tag from s.
func Plain(s string) string {
	_, strict := policies()
	return strict.Sanitize(s)
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

func builtinFuncs(md goldmark.Markdown) template.FuncMap {
	return template.FuncMap{
		"markdown": func(s string) (template.HTML, error) { return Markdown(md, s) },
		"plain":    Plain,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
	}
}
