package editor

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/euforicio/mdpad/internal/document"
	"github.com/euforicio/mdpad/internal/exporter"
	"github.com/euforicio/mdpad/internal/renderer"
)

// engineLoadedMsg conveys the result of the one-time PDF engine load.
type engineLoadedMsg struct {
	err error
}

// copyDoneMsg conveys the outcome of a clipboard copy. degraded means the
// rich write was rejected and the plain-text fallback succeeded.
type copyDoneMsg struct {
	degraded bool
	err      error
}

// exportDoneMsg conveys the outcome of a PDF export.
type exportDoneMsg struct {
	path string
	err  error
}

// savedMsg conveys the outcome of writing the backing file.
type savedMsg struct {
	err error
}

// fileChangedMsg delivers one external-change event; ok is false when the
// watcher channel closed.
type fileChangedMsg struct {
	event document.Event
	ok    bool
}

// noteExpiredMsg clears a notification after its display time.
type noteExpiredMsg struct {
	id int
}

// loadEngineCmd runs the engine warm-up under a bounded timeout.
func loadEngineCmd(engine exporter.Engine, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return engineLoadedMsg{err: engine.Load(ctx)}
	}
}

// copyCmd renders the document to HTML plus plain text and writes both to the
// clipboard, falling back to plain text when the rich write is rejected.
// Every path returns a message; copy never fails silently.
func (m *Model) copyCmd() tea.Cmd {
	raw := []byte(m.input.Value())
	clip := m.clip
	svc := m.renderer
	return func() tea.Msg {
		doc, err := svc.Render(context.Background(), raw)
		if err != nil {
			return copyDoneMsg{err: err}
		}
		plain := renderer.StripHTML(doc.HTML)

		if err := clip.WriteRich(doc.HTML, plain); err != nil {
			if fallbackErr := clip.WriteText(plain); fallbackErr != nil {
				return copyDoneMsg{err: fallbackErr}
			}
			return copyDoneMsg{degraded: true}
		}
		return copyDoneMsg{}
	}
}

// exportCmd writes the document as PDF to path via the engine.
func exportCmd(engine exporter.Engine, raw []byte, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Create(path) //nolint:gosec // path comes from configuration
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := engine.Export(context.Background(), raw, f); err != nil {
			f.Close()       //nolint:errcheck,gosec
			os.Remove(path) //nolint:errcheck,gosec // don't leave a partial PDF behind
			return exportDoneMsg{err: err}
		}
		if err := f.Close(); err != nil {
			os.Remove(path) //nolint:errcheck,gosec
			return exportDoneMsg{err: fmt.Errorf("close %s: %w", path, err)}
		}
		return exportDoneMsg{path: path}
	}
}

// saveCmd writes the document text to its backing file.
func saveCmd(doc *document.Service, text string) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: doc.Save(text)}
	}
}

// waitFileEventCmd blocks on the watcher channel for the next external change.
func waitFileEventCmd(events <-chan document.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return fileChangedMsg{event: ev, ok: ok}
	}
}
