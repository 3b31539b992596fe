package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/style"
)

func TestFromStyle_TextAttributes(t *testing.T) {
	got := FromStyle(lipgloss.NewStyle(), style.Parse("color: #ff0000; background-color: #000; font-weight: bold; font-style: italic; text-decoration: underline"))

	require.Equal(t, lipgloss.Color("#ff0000"), got.GetForeground())
	require.Equal(t, lipgloss.Color("#000"), got.GetBackground())
	require.True(t, got.GetBold())
	require.True(t, got.GetItalic())
	require.True(t, got.GetUnderline())
}

func TestFromStyle_BoxShorthand(t *testing.T) {
	tests := []struct {
		name                     string
		css                      string
		top, right, bottom, left int
	}{
		{name: "one value", css: "padding: 16px", top: 1, right: 2, bottom: 1, left: 2},
		{name: "two values", css: "padding: 0 3em", top: 0, right: 3, bottom: 0, left: 3},
		{name: "four values", css: "padding: 0 1 0 4", top: 0, right: 1, bottom: 0, left: 4},
		{name: "longhand wins", css: "padding: 1; padding-left: 5", top: 1, right: 1, bottom: 1, left: 5},
		{name: "vertical clamps to one row", css: "padding-top: 40px", top: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromStyle(lipgloss.NewStyle(), style.Parse(tt.css))
			top, right, bottom, left := got.GetPadding()
			require.Equal(t, []int{tt.top, tt.right, tt.bottom, tt.left}, []int{top, right, bottom, left})
		})
	}
}

func TestFromStyle_IgnoresUnknown(t *testing.T) {
	base := lipgloss.NewStyle().Bold(true)
	got := FromStyle(base, style.Parse("cursor: pointer; margin: auto; width: 50%"))

	require.True(t, got.GetBold(), "base attributes survive")
	top, right, bottom, left := got.GetMargin()
	require.Zero(t, top+right+bottom+left)
	require.Zero(t, got.GetWidth())
}

func TestFromStyle_WidthAndBorder(t *testing.T) {
	got := FromStyle(lipgloss.NewStyle(), style.Parse("width: 320px; border: 1px solid; border-color: #333"))

	require.Equal(t, 40, got.GetWidth())
	require.True(t, got.GetBorderTop())
	require.Equal(t, lipgloss.Color("#333"), got.GetBorderTopForeground())
}

func TestCells(t *testing.T) {
	n, ok := cells("24px")
	require.True(t, ok)
	require.Equal(t, 3, n)

	n, ok = cells("2em")
	require.True(t, ok)
	require.Equal(t, 2, n)

	_, ok = cells("10%")
	require.False(t, ok)
	_, ok = cells("auto")
	require.False(t, ok)
}
