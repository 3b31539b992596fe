// Package toaster provides a transient status line shown under the task.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/htx/internal/ui/styles"
)

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and style. It returns the
// updated model and a command dismissing this toast after d; a later Show
// is not dismissed by an earlier timer.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{seq: seq} })
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// View renders the toast line, prefixed with a glyph for its style.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	var (
		color lipgloss.TerminalColor
		glyph string
	)
	switch m.style {
	case StyleError:
		color, glyph = styles.StatusErrorColor, "✗"
	case StyleInfo:
		color, glyph = styles.StatusInfoColor, "•"
	case StyleWarn:
		color, glyph = styles.StatusWarningColor, "!"
	default:
		color, glyph = styles.StatusSuccessColor, "✓"
	}
	return lipgloss.NewStyle().Foreground(color).Padding(0, 1).Render(glyph + " " + m.message)
}

// DismissMsg signals that the toast should be dismissed.
type DismissMsg struct{ seq int }
