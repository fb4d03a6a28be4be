package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	nameStyle  = lipgloss.NewStyle().Bold(true)
	descStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("kettle settings"))
	b.WriteString("\n")

	b.WriteString(m.fieldView(fieldLocation,
		"New file location",
		"The folder path to create the new unique note."))
	b.WriteString("\n")
	b.WriteString(m.fieldView(fieldFormat,
		"Unique prefix format",
		fmt.Sprintf("moment.js format string. Currently: %s", m.example)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/shift+tab: switch field • esc: close"))
	return b.String()
}

func (m Model) fieldView(f field, name, desc string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(name),
		descStyle.Render(desc),
		m.inputs[f].View(),
	) + "\n"
}
