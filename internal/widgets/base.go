package widgets

import (
	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/style"
)

// Widget kinds.
const (
	KindView      = "View"
	KindHeader    = "Header"
	KindText      = "Text"
	KindHyperText = "HyperText"
	KindChoices   = "Choices"
	KindChoice    = "Choice"
	KindTextArea  = "TextArea"
)

// Base holds the fields shared by every widget kind.
type Base struct {
	Type     string
	ID       string
	ParentID string
	Name     string
	Visible  attr.Flag
	Style    style.Style

	// Props holds the attributes the kind does not interpret.
	Props attr.Props

	// Text is the literal text content of the element.
	Text string
}

// IsVisible reports the display gate; unset counts as visible.
func (b Base) IsVisible() bool {
	return b.Visible.Bool(true)
}

var baseAttrs = []string{"name", "style"}

func newBase(m registry.Mount, known ...string) Base {
	return Base{
		Type:     m.Tag,
		ID:       m.ID,
		ParentID: m.ParentID,
		Name:     m.Props.Get("name"),
		Visible:  attr.True,
		Style:    style.Parse(m.Props.Get("style")),
		Props:    m.Props.Without(append(known, baseAttrs...)...),
		Text:     m.Text,
	}
}

// exportName falls back to the instance id for unnamed controls.
func exportName(b Base) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
