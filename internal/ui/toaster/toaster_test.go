package toaster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := New()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Saved", StyleSuccess, time.Second)

	assert.True(t, m.Visible())
	assert.Contains(t, m.View(), "✓ Saved")
	assert.NotNil(t, cmd)
}

func TestHide(t *testing.T) {
	m, _ := New().Show("Hello", StyleSuccess, time.Second)
	m = m.Hide()

	assert.False(t, m.Visible())
	assert.Empty(t, m.View())
}

func TestShow_ReplacesExisting(t *testing.T) {
	m, _ := New().Show("First", StyleSuccess, time.Second)
	m, _ = m.Show("Second", StyleError, time.Second)

	assert.Contains(t, m.View(), "✗ Second")
	assert.NotContains(t, m.View(), "First")
}

func TestDismiss_OnlyLatestTimerHides(t *testing.T) {
	m, first := New().Show("First", StyleInfo, time.Millisecond)
	m, second := m.Show("Second", StyleWarn, time.Millisecond)

	stale := first()
	m = m.Update(stale)
	assert.True(t, m.Visible(), "an older timer must not hide a newer toast")

	m = m.Update(second())
	assert.False(t, m.Visible())
}

func TestUpdate_IgnoresOtherMessages(t *testing.T) {
	m, _ := New().Show("x", StyleSuccess, time.Second)
	m = m.Update("unrelated")
	assert.True(t, m.Visible())
}

func TestView_Styles(t *testing.T) {
	tests := []struct {
		style Style
		glyph string
	}{
		{StyleSuccess, "✓"},
		{StyleError, "✗"},
		{StyleInfo, "•"},
		{StyleWarn, "!"},
	}
	for _, tt := range tests {
		m, _ := New().Show("msg", tt.style, time.Second)
		assert.Contains(t, m.View(), tt.glyph+" msg")
	}
}
