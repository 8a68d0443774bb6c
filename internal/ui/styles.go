package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("244"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginRight(1)
	activePanelStyle = panelStyle.BorderForeground(lipgloss.Color("63"))
)
