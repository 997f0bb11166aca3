package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastLevel selects the toast styling.
type ToastLevel int

const (
	ToastSuccess ToastLevel = iota
	ToastError
	ToastInfo
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 4 * time.Second

// ToastExpiredMsg clears a toast. Seq guards against an old timer clearing
// a newer toast.
type ToastExpiredMsg struct {
	Seq int
}

// Toast is a transient one-line notification.
type Toast struct {
	message string
	level   ToastLevel
	seq     int
}

var (
	toastSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// Show replaces the current toast and returns the expiry command.
func (t *Toast) Show(message string, level ToastLevel) tea.Cmd {
	t.message = message
	t.level = level
	t.seq++
	seq := t.seq
	return tea.Tick(DefaultToastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}

// Expire clears the toast if the expiry message matches the active one.
func (t *Toast) Expire(msg ToastExpiredMsg) {
	if msg.Seq == t.seq {
		t.message = ""
	}
}

// Visible reports whether there is an active toast.
func (t *Toast) Visible() bool {
	return t.message != ""
}

// Message returns the raw toast text.
func (t *Toast) Message() string {
	return t.message
}

// View renders the toast line, or an empty string when inactive.
func (t *Toast) View() string {
	if t.message == "" {
		return ""
	}
	switch t.level {
	case ToastSuccess:
		return toastSuccessStyle.Render("✔ " + t.message)
	case ToastError:
		return toastErrorStyle.Render("✘ " + t.message)
	default:
		return toastInfoStyle.Render("ℹ " + t.message)
	}
}
