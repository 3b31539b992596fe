package widgets

import (
	"github.com/zjrosen/htx/internal/registry"
)

// HeaderState is a heading; Size runs from 1 (largest) to 6.
type HeaderState struct {
	Base
	Value string
	Size  int
}

// Label returns the value, or the text content when the value is empty.
func (s HeaderState) Label() string {
	if s.Value != "" {
		return s.Value
	}
	return s.Text
}

// TextState displays task data.
type TextState struct {
	Base
	Value string
}

// Content returns the value, or the text content when the value is empty.
func (s TextState) Content() string {
	if s.Value != "" {
		return s.Value
	}
	return s.Text
}

// HyperTextState displays task data holding HTML.
type HyperTextState struct {
	Base
	Value string
}

func (k *Kit) mountHeader(m registry.Mount) func() {
	size := min(max(m.Props.Int("size", 1), 1), 6)
	return k.Headers.Register(m.ID, HeaderState{
		Base:  newBase(m, "value", "size"),
		Value: m.Props.Get("value"),
		Size:  size,
	})
}

func (k *Kit) mountText(m registry.Mount) func() {
	return k.Texts.Register(m.ID, TextState{
		Base:  newBase(m, "value"),
		Value: m.Props.Get("value"),
	})
}

func (k *Kit) mountHyperText(m registry.Mount) func() {
	return k.HyperTexts.Register(m.ID, HyperTextState{
		Base:  newBase(m, "value"),
		Value: m.Props.Get("value"),
	})
}
