package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/htx/internal/flags"
	"github.com/zjrosen/htx/internal/testutil"
)

func TestProgram_AnswerAndQuit(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	h := newHarness(t)
	saver := &fakeSaver{}
	m, err := New(Config{
		Engine: h.engine,
		Kit:    h.kit,
		Source: func() (string, error) { return testutil.SentimentMarkup, nil },
		Data:   testutil.SentimentData(),
		TaskID: "sentiment",
		Saver:  saver,
		Flags:  flags.New(map[string]bool{flags.FlagAutosave: true}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Neutral"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Why?"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	require.Len(t, final.controls, 4)
	require.Equal(t, []string{"Negative"}, selected(t, h, "sentiment"))
	require.GreaterOrEqual(t, saver.Calls(), 1, "quit flushes answers")
}
