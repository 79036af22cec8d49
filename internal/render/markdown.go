package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// MarkdownFilter is the pongo2 filter that renders widget text as HTML.
const MarkdownFilter = "markdown"

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	registerFilters sync.Once
)

// Markdown converts source to HTML. Raw HTML in source is dropped.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return buf.String(), nil
}

func ensureFilters() {
	registerFilters.Do(func() {
		if pongo2.FilterExists(MarkdownFilter) {
			return
		}
		_ = pongo2.RegisterFilter(MarkdownFilter, markdownFilter)
	})
}

func markdownFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	html, err := Markdown(in.String())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:" + MarkdownFilter, OrigError: err}
	}
	return pongo2.AsSafeValue(html), nil
}
