// Package logpanel shows the debug log inside the answering program.
package logpanel

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/ui/styles"
)

const (
	maxEntries     = 500
	panelMaxHeight = 20 // viewport lines
	panelMinHeight = 3
	chromeHeight   = 4 // title, divider, hint and border
)

// Model is the log panel state. Entries accumulate while it is hidden.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden panel showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug, viewport: viewport.New(0, 0)}
}

// Append records one log entry, dropping the oldest past the buffer size.
func (m Model) Append(entry string) Model {
	entry = strings.TrimRight(entry, "\n")
	if entry == "" {
		return m
	}
	m.entries = append(m.entries, entry)
	if len(m.entries) > maxEntries {
		m.entries = append([]string(nil), m.entries[len(m.entries)-maxEntries:]...)
	}
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Update handles keys while the panel is visible. It reports whether the
// key was consumed.
func (m Model) Update(msg tea.KeyMsg) (Model, bool) {
	if !m.visible {
		return m, false
	}
	switch msg.String() {
	case "c":
		m.entries = nil
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	case "j", "down":
		m.viewport.ScrollDown(1)
		return m, true
	case "k", "up":
		m.viewport.ScrollUp(1)
		return m, true
	case "g":
		m.viewport.GotoTop()
		return m, true
	case "G":
		m.viewport.GotoBottom()
		return m, true
	case "esc", "ctrl+x":
		m.visible = false
		return m, true
	default:
		return m, false
	}
	m.refresh()
	return m, true
}

// Toggle shows or hides the panel.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Visible reports whether the panel is shown.
func (m Model) Visible() bool { return m.visible }

// SetSize updates the available screen size.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.refresh()
	return m
}

// Filtered returns the entries at or above the current level.
func (m Model) Filtered() []string {
	var out []string
	for _, entry := range m.entries {
		if levelOf(entry) >= m.minLevel {
			out = append(out, entry)
		}
	}
	return out
}

func (m *Model) refresh() {
	width := max(m.width-2, 20)
	m.viewport.Width = width
	m.viewport.Height = max(min(panelMaxHeight, m.height/2-chromeHeight), panelMinHeight)

	filtered := m.Filtered()
	if len(filtered) == 0 {
		m.viewport.SetContent(styles.PlaceholderStyle.Render("No logs to display"))
		return
	}
	lines := make([]string, 0, len(filtered))
	for _, entry := range filtered {
		lines = append(lines, colorize(entry, width))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// View renders the panel, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := max(m.width-2, 20)
	title := styles.HeaderStyle.Render("Logs")
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", width))

	body := strings.Join([]string{title, divider, m.viewport.View(), m.hint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Width(width).
		Render(body)
}

func (m Model) hint() string {
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	parts := []string{styles.HintStyle.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, styles.HintStyle.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}

// levelOf reads the level tag of a formatted entry. Entries without one
// count as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	switch {
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func colorize(entry string, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	color := styles.TextPrimaryColor
	switch levelOf(entry) {
	case log.LevelError:
		color = styles.StatusErrorColor
	case log.LevelWarn:
		color = styles.StatusWarningColor
	case log.LevelInfo:
		color = styles.StatusInfoColor
	case log.LevelDebug:
		color = styles.TextMutedColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}
