// Package editor implements the interactive editor view: a markdown input
// pane, a live-rendered preview pane, and the copy / export-PDF actions.
package editor

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/euforicio/mdpad/internal/clipboard"
	"github.com/euforicio/mdpad/internal/document"
	"github.com/euforicio/mdpad/internal/exporter"
	"github.com/euforicio/mdpad/internal/preview"
	"github.com/euforicio/mdpad/internal/renderer"
)

// pane identifies which half of the view owns keyboard focus.
type pane int

const (
	paneInput pane = iota
	panePreview
)

// engineState tracks the PDF engine readiness lifecycle.
type engineState int

const (
	engineLoading engineState = iota
	engineReady
	engineFailed
)

// noteTTL is how long a notification stays in the status line. A variable so
// tests can shorten the expiry tick.
var noteTTL = 4 * time.Second

// Options wires the editor's dependencies. Renderer, Preview, Clipboard and
// Logger are required; Engine and Document may be nil (PDF export and file
// operations then fail with a notification instead of crashing).
type Options struct {
	Renderer      *renderer.Service
	Preview       *preview.Renderer
	Clipboard     clipboard.Writer
	Engine        exporter.Engine
	Document      *document.Service
	Logger        *slog.Logger
	EngineTimeout time.Duration
	// PDFOutput is the path written by the export action.
	PDFOutput string
	// Initial is the starting document text.
	Initial string
}

// Model is the bubbletea model for the editor view.
type Model struct {
	renderer *renderer.Service
	preview  *preview.Renderer
	clip     clipboard.Writer
	engine   exporter.Engine
	doc      *document.Service
	logger   *slog.Logger

	input       textarea.Model
	previewPane viewport.Model

	focus         pane
	width, height int
	sized         bool

	engineState   engineTracker
	exporting     bool
	dirty         bool
	pdfOutput     string
	engineTimeout time.Duration

	note    *notification
	noteSeq int

	lastRendered string
}

// engineTracker bundles state with the failure cause for the status line.
type engineTracker struct {
	state engineState
	err   error
}

// New constructs the editor model with the given dependencies and initial
// document text.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	input := textarea.New()
	input.Placeholder = "Type markdown here…"
	input.CharLimit = 0
	input.SetValue(opts.Initial)
	input.Focus()

	timeout := opts.EngineTimeout
	if timeout <= 0 {
		timeout = exporter.DefaultLoadTimeout
	}
	pdfOutput := opts.PDFOutput
	if pdfOutput == "" {
		pdfOutput = exporter.DefaultPDFName
	}

	return &Model{
		renderer:      opts.Renderer,
		preview:       opts.Preview,
		clip:          opts.Clipboard,
		engine:        opts.Engine,
		doc:           opts.Document,
		logger:        logger.With("component", "editor"),
		input:         input,
		previewPane:   viewport.New(0, 0),
		focus:         paneInput,
		pdfOutput:     pdfOutput,
		engineTimeout: timeout,
	}
}

// Text returns the current document text.
func (m *Model) Text() string {
	return m.input.Value()
}

// EngineReady reports whether the PDF engine finished loading.
func (m *Model) EngineReady() bool {
	return m.engineState.state == engineReady
}

// Exporting reports whether a PDF export is in flight.
func (m *Model) Exporting() bool {
	return m.exporting
}

// Note returns the active notification, or nil.
func (m *Model) Note() *notification {
	return m.note
}

// Init starts the cursor blink, the one-time engine load, and the file-watch
// subscription.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.engine != nil {
		cmds = append(cmds, loadEngineCmd(m.engine, m.engineTimeout))
	} else {
		m.engineState = engineTracker{state: engineFailed, err: exporter.ErrEngineNotLoaded}
	}
	if m.doc != nil && m.doc.Path() != "" {
		cmds = append(cmds, waitFileEventCmd(m.doc.Events()))
	}
	return tea.Batch(cmds...)
}

// Update handles all editor interactions.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sized = true
		m.applyLayout()
		m.refreshPreview(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case engineLoadedMsg:
		if msg.err != nil {
			m.engineState = engineTracker{state: engineFailed, err: msg.err}
			m.logger.Error("pdf engine load failed", slog.Any("err", msg.err))
			return m, m.notify(sevError, "PDF engine unavailable", msg.err.Error())
		}
		m.engineState = engineTracker{state: engineReady}
		return m, nil

	case copyDoneMsg:
		switch {
		case msg.err != nil:
			m.logger.Error("copy failed", slog.Any("err", msg.err))
			return m, m.notify(sevError, "Copy failed", msg.err.Error())
		case msg.degraded:
			return m, m.notify(sevWarn, "Copied as plain text", "rich clipboard write was rejected")
		default:
			return m, m.notify(sevSuccess, "Rich text copied", "")
		}

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.logger.Error("pdf export failed", slog.Any("err", msg.err))
			return m, m.notify(sevError, "Error generating PDF", msg.err.Error())
		}
		return m, m.notify(sevSuccess, "PDF exported", msg.path)

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save failed", slog.Any("err", msg.err))
			return m, m.notify(sevError, "Save failed", msg.err.Error())
		}
		m.dirty = false
		return m, m.notify(sevSuccess, "Saved", "")

	case fileChangedMsg:
		return m.handleFileChanged(msg)

	case noteExpiredMsg:
		if m.note != nil && m.note.id == msg.id {
			m.note = nil
		}
		return m, nil
	}

	return m.updatePanes(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit

	case "tab":
		m.toggleFocus()
		return m, nil

	case "ctrl+y":
		return m, m.copyCmd()

	case "ctrl+e":
		return m.startExport()

	case "ctrl+s":
		return m.startSave()
	}

	return m.updatePanes(msg)
}

// updatePanes routes remaining messages to the focused widget and re-renders
// the preview when the document changed.
func (m *Model) updatePanes(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == paneInput {
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.dirty = true
			m.refreshPreview(false)
		}
	} else {
		m.previewPane, cmd = m.previewPane.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == paneInput {
		m.focus = panePreview
		m.input.Blur()
	} else {
		m.focus = paneInput
		m.input.Focus()
	}
}

// refreshPreview recomputes the preview pane content from the current
// document. force re-renders even when the text is unchanged (resize).
func (m *Model) refreshPreview(force bool) {
	if !m.sized || m.preview == nil {
		return
	}
	text := m.input.Value()
	if !force && text == m.lastRendered {
		return
	}
	m.lastRendered = text
	m.previewPane.SetContent(m.preview.Render(text, m.previewInnerWidth()))
}

// startExport requires a ready engine and no export already in flight.
// Violations surface as a notification and nothing else happens.
func (m *Model) startExport() (tea.Model, tea.Cmd) {
	if m.engineState.state != engineReady {
		return m, m.notify(sevError, "PDF engine not ready", "")
	}
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	raw := []byte(m.input.Value())
	return m, tea.Batch(
		m.notify(sevInfo, "Generating PDF…", ""),
		exportCmd(m.engine, raw, m.pdfOutput),
	)
}

func (m *Model) startSave() (tea.Model, tea.Cmd) {
	if m.doc == nil || m.doc.Path() == "" {
		return m, m.notify(sevWarn, "No file to save to", "start mdpad with a file argument")
	}
	return m, saveCmd(m.doc, m.input.Value())
}

func (m *Model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Watcher shut down; stop resubscribing.
		return m, nil
	}

	resub := waitFileEventCmd(m.doc.Events())

	if msg.event.Removed {
		return m, tea.Batch(resub, m.notify(sevWarn, "File removed on disk", msg.event.Path))
	}
	if m.dirty {
		return m, tea.Batch(resub, m.notify(sevWarn, "File changed on disk", "unsaved edits kept; save to overwrite"))
	}

	text, err := m.doc.Load()
	if err != nil {
		m.logger.Error("reload failed", slog.Any("err", err))
		return m, tea.Batch(resub, m.notify(sevError, "Reload failed", err.Error()))
	}
	m.input.SetValue(text)
	m.refreshPreview(false)
	return m, tea.Batch(resub, m.notify(sevInfo, "Reloaded from disk", ""))
}

func (m *Model) wordCount() int {
	return len(strings.Fields(m.input.Value()))
}

func (m *Model) lineCount() int {
	return strings.Count(m.input.Value(), "\n") + 1
}
