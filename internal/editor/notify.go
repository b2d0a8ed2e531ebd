package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// severity grades a notification for display.
type severity int

const (
	sevInfo severity = iota
	sevSuccess
	sevWarn
	sevError
)

// notification is an ephemeral toast shown in the status line.
type notification struct {
	id    int
	title string
	body  string
	sev   severity
}

// Title returns the notification title (exported for tests).
func (n *notification) Title() string { return n.title }

// Severity returns the notification grade (exported for tests).
func (n *notification) Severity() severity { return n.sev }

// notify replaces the active notification and schedules its expiry. The id
// guard keeps a stale expiry tick from clearing a newer notification.
func (m *Model) notify(sev severity, title, body string) tea.Cmd {
	m.noteSeq++
	id := m.noteSeq
	m.note = &notification{id: id, title: title, body: body, sev: sev}
	return tea.Tick(noteTTL, func(time.Time) tea.Msg {
		return noteExpiredMsg{id: id}
	})
}
