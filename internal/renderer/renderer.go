// Package renderer converts markdown to HTML with syntax highlighting.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	goldmarkmeta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/anchor"

	"github.com/euforicio/mdpad/internal/renderer/transform"
)

// Inline treatments applied to rendered elements so the emitted HTML stays
// readable when pasted or saved outside any stylesheet.
const (
	blockquoteStyle = "border-left: 4px solid #d0d7de; padding-left: 1em; margin-left: 0; font-style: italic; color: #656d76;"
	codeSpanStyle   = "background: #f0f1f2; padding: 0.2em 0.4em; border-radius: 3px; font-family: \"SFMono-Regular\", Consolas, Menlo, monospace; font-size: 0.9em;"
	preWrapperStyle = "padding: 0.8em; border-radius: 4px; overflow-x: auto; font-family: \"SFMono-Regular\", Consolas, Menlo, monospace; font-size: 0.9em;"
)

// Metadata captures optional frontmatter data rendered alongside a document.
type Metadata struct {
	Raw         map[string]any
	Title       string
	Description string
	Tags        []string
}

// IsZero reports whether the metadata carries any meaningful values.
func (m Metadata) IsZero() bool {
	if m.Title != "" || m.Description != "" || len(m.Tags) > 0 {
		return false
	}
	return len(m.Raw) == 0
}

// Document represents one rendered markdown document.
type Document struct {
	HTML     string
	Metadata Metadata
	Raw      string
}

// Mode selects optional pipeline behavior. The zero value disables everything;
// use DefaultMode for the usual editing configuration.
type Mode struct {
	// AllowHTML passes raw embedded HTML blocks through instead of escaping them.
	AllowHTML bool
	// Highlight applies syntax coloring to fenced code blocks by language tag.
	Highlight bool
	// Anchors adds permalink anchors after headings. Useful for standalone
	// HTML documents, noise in clipboard payloads.
	Anchors bool
	// Style is the chroma color scheme used when Highlight is set.
	Style string
}

// DefaultMode returns the configuration used by the editor: raw HTML allowed,
// highlighted fences, no heading anchors.
func DefaultMode() Mode {
	return Mode{AllowHTML: true, Highlight: true, Style: "github"}
}

// Service renders markdown into HTML. It uses Goldmark with GitHub-flavored
// markdown extensions (tables, strikethrough, autolinks, task lists), chroma
// syntax highlighting with inline styles, and YAML frontmatter parsing.
// Rendering is deterministic and recomputed on every call; documents here are
// small editor buffers, so there is no cache.
type Service struct {
	md     goldmark.Markdown
	logger *slog.Logger
	mode   Mode
}

// NewService constructs a markdown renderer for the given mode.
// If logger is nil, the default slog logger is used.
func NewService(logger *slog.Logger, mode Mode) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if mode.Style == "" {
		mode.Style = "github"
	}

	extensions := []goldmark.Extender{
		extension.GFM,
		goldmarkmeta.Meta,
	}
	if mode.Highlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(mode.Style),
			highlighting.WithFormatOptions(
				chromahtml.WithLineNumbers(false),
				// Inline styles keep the markup self-contained: no external
				// stylesheet is needed wherever the HTML ends up.
				chromahtml.WithCustomCSS(map[chroma.TokenType]string{
					chroma.PreWrapper: preWrapperStyle,
				}),
			),
			highlighting.WithWrapperRenderer(transform.PlainFenceWrapper(preWrapperStyle)),
		))
	}
	if mode.Anchors {
		extensions = append(extensions, &anchor.Extender{Position: anchor.After})
	}

	rendererOptions := []gmrenderer.Option{
		htmlrenderer.WithXHTML(),
		gmrenderer.WithNodeRenderers(
			util.Prioritized(&inlineStyleRenderer{}, 100),
		),
	}
	if mode.AllowHTML {
		// Raw HTML passthrough. Documents are local and trusted; the editor
		// never renders third-party content.
		rendererOptions = append(rendererOptions, htmlrenderer.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	return &Service{
		md:     md,
		logger: logger.With("component", "renderer"),
		mode:   mode,
	}
}

// Mode reports the configuration the service was built with.
func (s *Service) Mode() Mode {
	return s.mode
}

// Render converts markdown content to HTML. Malformed markdown does not error;
// goldmark degrades unmatched constructs to literal text.
func (s *Service) Render(ctx context.Context, content []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	parserCtx := parser.NewContext()
	buf := bytes.NewBuffer(nil)

	if err := s.md.Convert(content, buf, parser.WithContext(parserCtx)); err != nil {
		return Document{}, fmt.Errorf("render markdown: %w", err)
	}

	return Document{
		HTML:     buf.String(),
		Metadata: extractMetadata(parserCtx),
		Raw:      string(content),
	}, nil
}

// PlainText renders the document and strips markup, yielding the plain-text
// representation used as the clipboard fallback and the text export format.
func (s *Service) PlainText(ctx context.Context, content []byte) (string, error) {
	doc, err := s.Render(ctx, content)
	if err != nil {
		return "", err
	}
	return StripHTML(doc.HTML), nil
}

// inlineStyleRenderer overrides blockquote and code-span rendering to attach
// fixed inline treatments, independent of mode.
type inlineStyleRenderer struct{}

func (r *inlineStyleRenderer) RegisterFuncs(reg gmrenderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
}

func (r *inlineStyleRenderer) renderBlockquote(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<blockquote style="` + blockquoteStyle + "\">\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *inlineStyleRenderer) renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<code style="` + codeSpanStyle + `">`)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		segment := c.(*ast.Text).Segment
		value := segment.Value(source)
		if bytes.HasSuffix(value, []byte("\n")) {
			_, _ = w.Write(util.EscapeHTML(value[:len(value)-1]))
			_, _ = w.WriteString(" ")
		} else {
			_, _ = w.Write(util.EscapeHTML(value))
		}
	}
	return ast.WalkSkipChildren, nil
}

func extractMetadata(ctx parser.Context) Metadata {
	raw := goldmarkmeta.Get(ctx)
	var meta Metadata
	if raw == nil {
		return meta
	}

	meta.Raw = make(map[string]any)
	for k, v := range raw {
		meta.Raw[k] = v
		switch k {
		case "title":
			if str, ok := toString(v); ok {
				meta.Title = str
			}
		case "description", "summary":
			if str, ok := toString(v); ok {
				meta.Description = str
			}
		case "tags", "keywords":
			meta.Tags = toStringSlice(v)
		}
	}

	if len(meta.Raw) == 0 {
		meta.Raw = nil
	}

	return meta
}

func toString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if str, ok := toString(item); ok {
				out = append(out, str)
			}
		}
		return out
	case []string:
		return append([]string(nil), vv...)
	default:
		if str, ok := toString(v); ok {
			return []string{str}
		}
		return nil
	}
}

// StripHTML removes markup from rendered HTML, leaving readable text.
// Good enough for clipboard fallbacks and text export; not a full parser.
func StripHTML(html string) string {
	html = removeTagWithContent(html, "script")
	html = removeTagWithContent(html, "style")

	var result strings.Builder
	inTag := false

	for i := 0; i < len(html); i++ {
		char := html[i]

		if char == '<' {
			inTag = true
			continue
		}
		if char == '>' {
			inTag = false
			continue
		}

		if !inTag {
			result.WriteByte(char)
		}
	}

	text := result.String()
	text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	return strings.TrimSpace(text)
}

func removeTagWithContent(html, tag string) string {
	openTag := "<" + tag
	closeTag := "</" + tag + ">"

	for {
		// Tag names are ASCII, so an ASCII-only lowered copy keeps byte
		// offsets aligned with the original. strings.ToLower would not:
		// some Unicode characters change byte length when lowered.
		lower := asciiLower(html)

		start := strings.Index(lower, openTag)
		if start == -1 {
			break
		}

		end := strings.Index(lower[start:], closeTag)
		if end == -1 {
			break
		}

		html = html[:start] + html[start+end+len(closeTag):]
	}

	return html
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
