// Package preview renders markdown into styled terminal output for the
// editor's preview pane.
package preview

import (
	"log/slog"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer produces ANSI-styled preview text from markdown source. It wraps a
// glamour term renderer which is rebuilt whenever the wrap width changes
// (glamour renderers are fixed-width).
type Renderer struct {
	mu     sync.Mutex
	logger *slog.Logger
	tr     *glamour.TermRenderer
	width  int
}

// New constructs a preview renderer. If logger is nil, the default slog
// logger is used.
func New(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger.With("component", "preview")}
}

// Render converts markdown into ANSI output wrapped at the given width.
// Rendering never fails the caller: if glamour errors, the raw source is
// returned so the preview pane always shows something.
func (r *Renderer) Render(markdown string, width int) string {
	if width < 1 {
		width = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tr == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			r.logger.Warn("init preview renderer failed", slog.Any("err", err))
			return markdown
		}
		r.tr = tr
		r.width = width
	}

	out, err := r.tr.Render(markdown)
	if err != nil {
		r.logger.Warn("preview render failed", slog.Any("err", err))
		return markdown
	}
	return out
}
