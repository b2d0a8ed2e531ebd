package renderer_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/euforicio/mdpad/internal/renderer"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRenderHeading(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	doc, err := svc.Render(context.Background(), []byte("# Title"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, "<h1") || !strings.Contains(doc.HTML, "Title") {
		t.Fatalf("expected level-1 heading containing Title, got %s", doc.HTML)
	}
}

func TestRenderHighlightedFence(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	content := []byte("```javascript\nfunction greet(name) { return name; }\n```\n")
	doc, err := svc.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	html := doc.HTML
	if !strings.Contains(html, "<pre") {
		t.Fatalf("expected pre block, got %s", html)
	}
	// Inline chroma styles: token spans carry style attributes, no classes.
	if !strings.Contains(html, "<span style=") {
		t.Fatalf("expected inline-styled syntax tokens, got %s", html)
	}
	if !strings.Contains(html, "greet") {
		t.Fatalf("expected code content in HTML, got %s", html)
	}
}

func TestRenderPlainFenceFallback(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	doc, err := svc.Render(context.Background(), []byte("```\nno language here\n```\n"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, `<pre style="`) {
		t.Fatalf("expected inline-styled pre for plain fence, got %s", doc.HTML)
	}
	if !strings.Contains(doc.HTML, "no language here") {
		t.Fatalf("expected fence content preserved, got %s", doc.HTML)
	}
}

func TestRenderBlockquoteTreatment(t *testing.T) {
	t.Parallel()
	// The blockquote treatment is fixed, independent of mode.
	for _, mode := range []renderer.Mode{renderer.DefaultMode(), {Highlight: false}} {
		svc := renderer.NewService(testLogger(), mode)
		doc, err := svc.Render(context.Background(), []byte("> quoted text\n"))
		if err != nil {
			t.Fatalf("Render returned error: %v", err)
		}
		if !strings.Contains(doc.HTML, `<blockquote style="border-left`) {
			t.Fatalf("expected inline-styled blockquote, got %s", doc.HTML)
		}
		if !strings.Contains(doc.HTML, "quoted text") {
			t.Fatalf("expected blockquote content, got %s", doc.HTML)
		}
	}
}

func TestRenderCodeSpanTreatment(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	doc, err := svc.Render(context.Background(), []byte("use `go build` here"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, `<code style="background`) {
		t.Fatalf("expected inline-styled code span, got %s", doc.HTML)
	}
	if !strings.Contains(doc.HTML, "go build") {
		t.Fatalf("expected code span content, got %s", doc.HTML)
	}
}

func TestRenderGFMExtensions(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	content := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~ and https://example.com\n")
	doc, err := svc.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, "<table>") {
		t.Fatalf("expected table, got %s", doc.HTML)
	}
	if !strings.Contains(doc.HTML, "<del>gone</del>") {
		t.Fatalf("expected strikethrough, got %s", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `<a href="https://example.com"`) {
		t.Fatalf("expected autolink, got %s", doc.HTML)
	}
}

func TestRenderRawHTMLPassthrough(t *testing.T) {
	t.Parallel()
	content := []byte("before\n\n<div class=\"note\">embedded</div>\n\nafter\n")

	allowed := renderer.NewService(testLogger(), renderer.Mode{AllowHTML: true})
	doc, err := allowed.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, `<div class="note">`) {
		t.Fatalf("expected raw HTML passed through, got %s", doc.HTML)
	}

	escaped := renderer.NewService(testLogger(), renderer.Mode{AllowHTML: false})
	doc, err = escaped.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(doc.HTML, `<div class="note">`) {
		t.Fatalf("expected raw HTML suppressed, got %s", doc.HTML)
	}
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	content := []byte("# A\n\nsome *text* with `code`\n\n> quote\n")
	first, err := svc.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := svc.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first.HTML != second.HTML {
		t.Fatalf("renders differ for identical input")
	}
}

func TestRenderMalformedDoesNotError(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	// Unmatched constructs degrade to literal text.
	for _, input := range []string{"**unclosed bold", "[dangling](", "``` never closed", "***"} {
		if _, err := svc.Render(context.Background(), []byte(input)); err != nil {
			t.Fatalf("Render(%q) returned error: %v", input, err)
		}
	}
}

func TestRenderMetadata(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	content := []byte("---\ntitle: Example Doc\ndescription: Sample description\ntags:\n  - go\n  - editor\n---\n\n# Hello\n")
	doc, err := svc.Render(context.Background(), content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if doc.Metadata.Title != "Example Doc" {
		t.Fatalf("expected title 'Example Doc', got %q", doc.Metadata.Title)
	}
	if doc.Metadata.Description != "Sample description" {
		t.Fatalf("unexpected description: %q", doc.Metadata.Description)
	}
	if len(doc.Metadata.Tags) != 2 || doc.Metadata.Tags[0] != "go" || doc.Metadata.Tags[1] != "editor" {
		t.Fatalf("unexpected tags: %#v", doc.Metadata.Tags)
	}
}

func TestRenderAnchors(t *testing.T) {
	t.Parallel()
	mode := renderer.DefaultMode()
	mode.Anchors = true
	svc := renderer.NewService(testLogger(), mode)

	doc, err := svc.Render(context.Background(), []byte("## Section Name\n"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, `href="#section-name"`) {
		t.Fatalf("expected heading anchor, got %s", doc.HTML)
	}

	plain := renderer.NewService(testLogger(), renderer.DefaultMode())
	doc, err = plain.Render(context.Background(), []byte("## Section Name\n"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(doc.HTML, `href="#section-name"`) {
		t.Fatalf("expected no anchors in default mode, got %s", doc.HTML)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	svc := renderer.NewService(testLogger(), renderer.DefaultMode())

	text, err := svc.PlainText(context.Background(), []byte("# Title\n\nsome **bold** text\n"))
	if err != nil {
		t.Fatalf("PlainText returned error: %v", err)
	}
	if strings.Contains(text, "<") {
		t.Fatalf("expected markup stripped, got %q", text)
	}
	if !strings.Contains(text, "Title") || !strings.Contains(text, "some bold text") {
		t.Fatalf("expected readable text, got %q", text)
	}
}

func TestStripHTML(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "<p>hello</p>", "hello"},
		{"nested", "<div><em>a</em> b</div>", "a b"},
		{"script removed", "<script>evil()</script>text", "text"},
		{"style removed", "<style>p{}</style>text", "text"},
		{"mixed case script", "<ScRiPt>evil()</sCrIpT>text", "text"},
		{
			// Characters whose lowercase form has a different byte length
			// (İ is 2 bytes, i is 1) must not shift the removal offsets.
			"multibyte before script",
			strings.Repeat("İ", 100) + "<script>x</script>done",
			strings.Repeat("İ", 100) + "done",
		},
		{"multibyte before style", "İİİ<STYLE>p{}</style>done", "İİİdone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := renderer.StripHTML(tc.in); got != tc.want {
				t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
