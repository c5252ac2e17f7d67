// Package views provides the default HTML pages for the blog. Each page is
// a templ component that executes an embedded html/template against the
// flattened page attributes.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/mindmeld360/blog"
	"github.com/mindmeld360/blog/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"jsonLD":   jsonLD,
	"markdown": renderMarkdown,
	"date":     formatDate,
	"isoDate":  isoDate,
}).ParseFS(templateFS, "templates/*.html"))

// Funcs returns the ViewFuncs for the default pages.
func Funcs() blog.ViewFuncs {
	return blog.ViewFuncs{
		Index:       page(blog.ViewIndex),
		Post:        page(blog.ViewPost),
		NotFound:    page(blog.ViewNotFound),
		ServerError: page(blog.ViewError),
	}
}

func page(name string) func(blog.Page) templ.Component {
	return func(p blog.Page) templ.Component {
		attrs := p.Attributes()
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return templates.ExecuteTemplate(w, name, attrs)
		})
	}
}

// jsonLD marks serialized JSON-LD as safe script content. encoding/json
// escapes <, > and & so the document cannot close the script element.
func jsonLD(s string) template.JS {
	return template.JS(s)
}

func renderMarkdown(content string) (template.HTML, error) {
	out, err := markdown.Render(content)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func formatDate(t time.Time) string {
	return t.UTC().Format("January 2, 2006")
}

func isoDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
