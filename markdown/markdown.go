// Package markdown converts post bodies to HTML with goldmark and reads
// their YAML frontmatter.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders GitHub-flavoured markdown. Frontmatter blocks are parsed
// and never appear in the HTML output. Raw HTML in the source is dropped.
type Parser struct {
	md goldmark.Markdown
}

// NewParser returns a Parser with GFM, footnotes, typographer and heading IDs.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithXHTML(),
		),
	)
	return &Parser{md: md}
}

// Convert renders source to HTML.
func (p *Parser) Convert(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Frontmatter decodes the frontmatter of source into v. It reports false
// when source has no frontmatter block.
func (p *Parser) Frontmatter(source []byte, v any) (bool, error) {
	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return false, nil
	}
	if err := data.Decode(v); err != nil {
		return true, err
	}
	return true, nil
}

var defaultParser = NewParser()

// Render converts markdown content to an HTML string with the default Parser.
func Render(content string) (string, error) {
	out, err := defaultParser.Convert([]byte(content))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := defaultParser.Convert([]byte(content))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})
}
