package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestRenderSection_Shape(t *testing.T) {
	out := RenderSection([]string{"( ) Positive", "(•) Negative"}, "sentiment", "single", 30, false)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4)
	for _, line := range lines {
		require.Equal(t, 30, lipgloss.Width(line), "line %q", line)
	}
	require.Contains(t, lines[0], "sentiment")
	require.Contains(t, lines[0], "(single)")
	require.True(t, strings.HasPrefix(lines[3], borderBottomLeft) || strings.Contains(lines[3], borderBottomLeft))
}

func TestRenderSection_TruncatesWideRows(t *testing.T) {
	out := RenderSection([]string{strings.Repeat("x", 50)}, "", "", 20, true)
	for _, line := range strings.Split(out, "\n") {
		require.Equal(t, 20, lipgloss.Width(line))
	}
	require.Contains(t, out, "...")
}

func TestRenderSection_FocusChangesColor(t *testing.T) {
	// Force ANSI color output in test environment
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })

	unfocused := RenderSection([]string{"Content"}, "Test", "", 30, false)
	focused := RenderSection([]string{"Content"}, "Test", "", 30, true)

	for _, want := range []string{"╭", "╯", "Content", "Test"} {
		require.Contains(t, unfocused, want)
		require.Contains(t, focused, want)
	}
	require.NotEqual(t, unfocused, focused)
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "hello", TruncateString("hello", 10))
	require.Equal(t, "hel...", TruncateString("hello world", 6))
	require.Equal(t, "..", TruncateString("hello", 2))
	require.Equal(t, "", TruncateString("hello", 0))
}
