// Package markdown renders Markdown documents to sanitised HTML.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.MarkdownRenderer = (*Renderer)(nil)

// The converter and policy never change after construction and are safe
// to share across goroutines.
var (
	converter     goldmark.Markdown
	sanitiser     *bluemonday.Policy
	converterOnce sync.Once
)

func setup() {
	converterOnce.Do(func() {
		converter = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		)

		sanitiser = bluemonday.UGCPolicy()
		// Keep GFM task list checkboxes and heading anchors.
		sanitiser.AllowAttrs("type", "checked", "disabled").OnElements("input")
		sanitiser.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	})
}

// Renderer converts Markdown to HTML with goldmark and strips anything
// unsafe with a bluemonday user-content policy. Raw HTML in the source is
// omitted by goldmark before sanitising.
type Renderer struct{}

// NewRenderer creates a Markdown renderer.
func NewRenderer() *Renderer {
	setup()
	return &Renderer{}
}

// Render returns sanitised HTML for markdown.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	setup()

	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return string(sanitiser.SanitizeBytes(buf.Bytes())), nil
}
