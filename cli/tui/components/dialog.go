package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dangerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2).
			Width(64)
	neutralBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(1, 2).
			Width(64)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	infoTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ConfirmDialog renders a destructive-action confirmation box.
func ConfirmDialog(title, body, warning string) string {
	content := dialogTitleStyle.Render("⚠  "+title) + "\n\n" + body + "\n"
	if warning != "" {
		content += "\n" + warnStyle.Render(warning) + "\n"
	}
	content += "\n" + mutedStyle.Render("y to confirm • n/esc to cancel")
	return dangerBoxStyle.Render(content)
}

// BlockedDialog renders the 409 "resource in use" box listing the blocking
// projects and blueprints reported by the server.
func BlockedDialog(title, message string, references []string) string {
	content := dialogTitleStyle.Render("✘ "+title) + "\n\n"
	if message != "" {
		content += message + "\n\n"
	}
	if len(references) > 0 {
		content += "Blocked by:\n"
		var b strings.Builder
		for _, ref := range references {
			fmt.Fprintf(&b, "  • %s\n", ref)
		}
		content += b.String()
	}
	content += "\n" + mutedStyle.Render("esc to close")
	return dangerBoxStyle.Render(content)
}

// SelectDialog renders a cursor-driven option picker.
func SelectDialog(title string, options []string, cursor int) string {
	content := infoTitleStyle.Render(title) + "\n\n"
	for i, opt := range options {
		prefix := "  "
		line := opt
		if i == cursor {
			prefix = "> "
			line = lipgloss.NewStyle().Bold(true).Render(opt)
		}
		content += prefix + line + "\n"
	}
	content += "\n" + mutedStyle.Render("↑/↓ to move • enter to apply • esc to cancel")
	return neutralBoxStyle.Render(content)
}
