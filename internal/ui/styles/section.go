package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderSection renders content lines in a rounded box with the title and
// an optional hint embedded in the top border: ╭─ Title (hint) ───╮.
// Lines wider than the box are truncated.
func RenderSection(content []string, title, hint string, width int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)

	innerWidth := max(width-2, 1)

	var top strings.Builder
	if title == "" {
		top.WriteString(borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight))
	} else {
		label := TruncateString(title, max(innerWidth-3, 1))
		labelLen := lipgloss.Width(label)
		if hint != "" {
			labelLen += lipgloss.Width(" (" + hint + ")")
		}
		dashes := max(innerWidth-labelLen-3, 0) // "─ " before and " " after
		top.WriteString(borderStyle.Render(borderTopLeft+borderHorizontal+" ") + titleStyle.Render(label))
		if hint != "" {
			top.WriteString(" " + HintStyle.Render("("+hint+")"))
		}
		top.WriteString(borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashes) + borderTopRight))
	}

	lines := make([]string, 0, len(content)+2)
	lines = append(lines, top.String())
	for _, row := range content {
		row = TruncateString(row, innerWidth)
		pad := max(innerWidth-lipgloss.Width(row), 0)
		lines = append(lines, borderStyle.Render(borderVertical)+row+strings.Repeat(" ", pad)+borderStyle.Render(borderVertical))
	}
	lines = append(lines, borderStyle.Render(borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight))
	return strings.Join(lines, "\n")
}
