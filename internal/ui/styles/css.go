package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/htx/internal/style"
)

// pxPerCell approximates how many CSS pixels one terminal cell covers.
const pxPerCell = 8

// FromStyle maps a resolved inline style onto base. Properties with no
// terminal equivalent are ignored.
func FromStyle(base lipgloss.Style, s style.Style) lipgloss.Style {
	out := base
	if c := s.Get("color"); c != "" {
		out = out.Foreground(lipgloss.Color(c))
	}
	if c := firstNonEmpty(s.Get("backgroundColor"), s.Get("background")); c != "" {
		out = out.Background(lipgloss.Color(c))
	}
	switch strings.ToLower(s.Get("fontWeight")) {
	case "bold", "bolder", "600", "700", "800", "900":
		out = out.Bold(true)
	case "normal", "lighter", "400":
		out = out.Bold(false)
	}
	if strings.EqualFold(s.Get("fontStyle"), "italic") {
		out = out.Italic(true)
	}
	switch deco := strings.ToLower(s.Get("textDecoration")); {
	case strings.Contains(deco, "underline"):
		out = out.Underline(true)
	case strings.Contains(deco, "line-through"):
		out = out.Strikethrough(true)
	}
	switch strings.ToLower(s.Get("textAlign")) {
	case "center":
		out = out.Align(lipgloss.Center)
	case "right":
		out = out.Align(lipgloss.Right)
	}
	if top, right, bottom, left, ok := box(s, "padding"); ok {
		out = out.Padding(top, right, bottom, left)
	}
	if top, right, bottom, left, ok := box(s, "margin"); ok {
		out = out.Margin(top, right, bottom, left)
	}
	if w, ok := cells(s.Get("width")); ok && w > 0 {
		out = out.Width(w)
	}
	if b := s.Get("border"); b != "" && !strings.EqualFold(b, "none") && b != "0" {
		out = out.Border(lipgloss.RoundedBorder())
		if c := s.Get("borderColor"); c != "" {
			out = out.BorderForeground(lipgloss.Color(c))
		}
	}
	return out
}

// box resolves a CSS box shorthand ("padding", "margin") plus its per-side
// longhands into cells.
func box(s style.Style, prop string) (top, right, bottom, left int, ok bool) {
	if v := s.Get(prop); v != "" {
		parts := strings.Fields(v)
		vals := make([]int, 0, len(parts))
		for _, p := range parts {
			n, _ := cells(p)
			vals = append(vals, n)
		}
		switch len(vals) {
		case 1:
			top, right, bottom, left = vals[0], vals[0], vals[0], vals[0]
		case 2:
			top, right, bottom, left = vals[0], vals[1], vals[0], vals[1]
		case 3:
			top, right, bottom, left = vals[0], vals[1], vals[2], vals[1]
		case 4:
			top, right, bottom, left = vals[0], vals[1], vals[2], vals[3]
		}
		ok = len(vals) > 0
	}
	for side, dst := range map[string]*int{"Top": &top, "Right": &right, "Bottom": &bottom, "Left": &left} {
		if n, found := cells(s.Get(prop + side)); found {
			*dst = n
			ok = true
		}
	}
	// Vertical space is much taller than horizontal in a terminal.
	top, bottom = min(top, 1), min(bottom, 1)
	return top, right, bottom, left, ok
}

// cells converts a CSS length to terminal cells: px are divided by
// pxPerCell, em/rem/ch count as one cell each and bare numbers are cells.
func cells(v string) (int, bool) {
	n, unit, ok := style.Length(v)
	if !ok {
		return 0, false
	}
	switch strings.ToLower(unit) {
	case "px":
		n /= pxPerCell
	case "", "em", "rem", "ch":
	default:
		return 0, false
	}
	return int(math.Round(n)), true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
