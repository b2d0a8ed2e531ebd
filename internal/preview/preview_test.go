package preview_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/euforicio/mdpad/internal/preview"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRenderContainsContent(t *testing.T) {
	t.Parallel()
	r := preview.New(testLogger())

	out := r.Render("# Heading\n\nbody text here\n", 80)
	if !strings.Contains(out, "Heading") {
		t.Fatalf("expected heading text in preview, got %q", out)
	}
	if !strings.Contains(out, "body text here") {
		t.Fatalf("expected body text in preview, got %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()
	r := preview.New(testLogger())

	// Must not panic or error out; whatever glamour emits is fine.
	_ = r.Render("", 80)
}

func TestRenderWidthChange(t *testing.T) {
	t.Parallel()
	r := preview.New(testLogger())

	long := "word " + strings.Repeat("again ", 40)
	wide := r.Render(long, 120)
	narrow := r.Render(long, 30)

	if wide == "" || narrow == "" {
		t.Fatal("expected output at both widths")
	}
	maxLine := func(s string) int {
		max := 0
		for _, line := range strings.Split(s, "\n") {
			if n := len([]rune(line)); n > max {
				max = n
			}
		}
		return max
	}
	if maxLine(narrow) > maxLine(wide) {
		t.Fatalf("narrow render wraps wider than wide render: %d > %d", maxLine(narrow), maxLine(wide))
	}
}

func TestRenderTinyWidth(t *testing.T) {
	t.Parallel()
	r := preview.New(testLogger())

	// Zero and negative widths clamp instead of breaking glamour.
	_ = r.Render("some text", 0)
	_ = r.Render("some text", -5)
}
