package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/notify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#89B4FA")).
			Padding(0, 1).
			Bold(true)

	taskStyle = lipgloss.NewStyle()

	selectedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EE6FF8")).
				Bold(true)

	completedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A6E3A1")).
				Strikethrough(true)

	grabbedTaskStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAB387")).
				Bold(true)

	deadlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(0, 1)

	toastBase = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#1E1E2E"))

	toastStyles = map[notify.Severity]lipgloss.Style{
		notify.SeveritySuccess: toastBase.Background(lipgloss.Color("#A6E3A1")),
		notify.SeverityInfo:    toastBase.Background(lipgloss.Color("#89B4FA")),
		notify.SeverityWarning: toastBase.Background(lipgloss.Color("#F9E2AF")),
		notify.SeverityNeutral: toastBase.Background(lipgloss.Color("#BAC2DE")),
	}
)

func toastStyle(s notify.Severity) lipgloss.Style {
	if style, ok := toastStyles[s]; ok {
		return style
	}
	return toastStyles[notify.SeverityNeutral]
}
