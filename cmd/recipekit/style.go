package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/recipekit/internal/scaffold"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E06C75"))
	statusStyles = map[scaffold.Status]lipgloss.Style{
		scaffold.StatusInstalled: lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")),
		scaffold.StatusDeclined:  mutedStyle,
		scaffold.StatusFailed:    errorStyle,
		scaffold.StatusSkipped:   noteStyle,
	}
)

// noteWriter prints recipe notes to the terminal.
type noteWriter struct {
	out io.Writer
}

func (w noteWriter) Note(message string) {
	fmt.Fprintln(w.out, noteStyle.Render(message))
}

func renderStatus(status scaffold.Status) string {
	style, ok := statusStyles[status]
	if !ok {
		return string(status)
	}
	return style.Render(fmt.Sprintf("%-9s", status))
}
