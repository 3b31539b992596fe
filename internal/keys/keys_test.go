package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_KeyAssignments(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Up uses k, up and shift+tab", binding: km.Up, expected: []string{"k", "up", "shift+tab"}},
		{name: "Down uses j, down and tab", binding: km.Down, expected: []string{"j", "down", "tab"}},
		{name: "Toggle uses space and x", binding: km.Toggle, expected: []string{" ", "x"}},
		{name: "Edit uses enter", binding: km.Edit, expected: []string{"enter"}},
		{name: "Save uses ctrl+s", binding: km.Save, expected: []string{"ctrl+s"}},
		{name: "Reload uses ctrl+r", binding: km.Reload, expected: []string{"ctrl+r"}},
		{name: "Logs uses ctrl+x", binding: km.Logs, expected: []string{"ctrl+x"}},
		{name: "Quit uses q and ctrl+c", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
	require.Equal(t, "toggle choice", km.Toggle.Help().Desc)
}

func TestKeyMatches(t *testing.T) {
	km := DefaultKeyMap()
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.Toggle))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, km.Down))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, km.Down))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, km.Up))
}

func TestEditingKeyMap_OnlyLeavesEditor(t *testing.T) {
	km := EditingKeyMap()

	short := km.ShortHelp()
	require.Len(t, short, 1, "only Commit is in the short help")
	require.Equal(t, km.Commit.Keys(), short[0].Keys())

	var total int
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	require.Equal(t, 2, total)
	require.Empty(t, km.Toggle.Keys())
}

func TestFullHelp_DropsDisabledBindings(t *testing.T) {
	km := DefaultKeyMap()
	km.Logs.SetEnabled(false)

	for _, col := range km.FullHelp() {
		for _, b := range col {
			require.NotEqual(t, []string{"ctrl+x"}, b.Keys())
		}
	}
}
