// Package markdown renders article and case bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Options configures a Renderer.
type Options struct {
	// Unsafe lets raw HTML in the source through to the output. Only enable
	// it when every author of the content store is trusted.
	Unsafe bool
}

// Renderer converts markdown to HTML. A single instance is safe for
// concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// New builds a Renderer with GFM, linkify and automatic heading ids.
func New(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{engine: engine}
}

// Render converts a markdown document to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// Content renders item content when it is a markdown string. Structured rich
// text and empty content report false so callers can omit the HTML.
func (r *Renderer) Content(content json.RawMessage) (string, bool) {
	body, ok := domain.MarkdownBody(content)
	if !ok || body == "" {
		return "", false
	}
	out, err := r.Render(body)
	if err != nil {
		return "", false
	}
	return out, true
}
