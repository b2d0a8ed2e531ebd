package editor

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("62"))

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	noteStyles = map[severity]lipgloss.Style{
		sevInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		sevSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		sevWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		sevError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)
