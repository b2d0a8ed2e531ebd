package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View draws the two panes side by side with a status line underneath.
func (m *Model) View() string {
	if !m.sized {
		return "Loading…"
	}

	leftWidth, rightWidth, contentHeight := m.paneSizes()
	left := m.renderPane("EDITOR", m.input.View(), leftWidth, contentHeight, m.focus == paneInput)
	right := m.renderPane("PREVIEW", m.previewPane.View(), rightWidth, contentHeight, m.focus == panePreview)

	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return row + "\n" + m.renderStatus()
}

func (m *Model) paneSizes() (leftWidth, rightWidth, contentHeight int) {
	leftWidth = m.width / 2
	rightWidth = m.width - leftWidth
	contentHeight = max(0, m.height-1)
	return leftWidth, rightWidth, contentHeight
}

func (m *Model) applyLayout() {
	leftWidth, _, contentHeight := m.paneSizes()

	// One line inside each pane is reserved for its title.
	innerHeight := max(0, contentHeight-paneStyle.GetVerticalFrameSize()-1)

	m.input.SetWidth(max(0, leftWidth-paneStyle.GetHorizontalFrameSize()))
	m.input.SetHeight(innerHeight)

	m.previewPane.Width = m.previewInnerWidth()
	m.previewPane.Height = innerHeight
}

func (m *Model) previewInnerWidth() int {
	_, rightWidth, _ := m.paneSizes()
	return max(0, rightWidth-paneStyle.GetHorizontalFrameSize())
}

func (m *Model) renderPane(title, content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	header := paneTitleStyle.Render(title)
	return style.Width(max(0, width-paneStyle.GetHorizontalFrameSize())).
		Height(max(0, height-paneStyle.GetVerticalFrameSize())).
		Render(header + "\n" + content)
}

// renderStatus composes the footer: key hints, document info, engine state,
// and the active notification.
func (m *Model) renderStatus() string {
	parts := []string{"ctrl+y copy  ctrl+e pdf  ctrl+s save  tab pane  ctrl+c quit"}

	name := "scratch"
	if m.doc != nil && m.doc.Path() != "" {
		name = filepath.Base(m.doc.Path())
	}
	if m.dirty {
		name = dirtyStyle.Render(name + "*")
	}
	parts = append(parts, name)

	parts = append(parts, fmt.Sprintf("%dw %dl", m.wordCount(), m.lineCount()))
	parts = append(parts, m.engineLabel())

	line := strings.Join(parts, " │ ")
	if m.note != nil {
		noteText := m.note.title
		if m.note.body != "" {
			noteText += ": " + m.note.body
		}
		line += " │ " + noteStyles[m.note.sev].Render(noteText)
	}

	return statusStyle.Width(m.width).MaxHeight(1).Render(" " + line)
}

func (m *Model) engineLabel() string {
	if m.exporting {
		return "pdf: exporting…"
	}
	switch m.engineState.state {
	case engineReady:
		return "pdf: ready"
	case engineFailed:
		return "pdf: unavailable"
	default:
		return "pdf: loading"
	}
}
