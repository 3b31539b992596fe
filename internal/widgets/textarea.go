package widgets

import (
	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/registry"
)

// TextAreaState is a free-text answer.
type TextAreaState struct {
	Base
	ToName         string
	Value          string
	Placeholder    string
	Label          string
	Rows           int
	MaxSubmissions int
	Editable       attr.Flag
	Required       attr.Flag
}

// Compile-time check that TextAreaState takes part in export.
var _ registry.Control = TextAreaState{}

func (s TextAreaState) ExportName() string   { return exportName(s.Base) }
func (s TextAreaState) ExportTarget() string { return s.ToName }

// ExportValue returns {"text": [...]}; an empty answer exports an empty list.
func (s TextAreaState) ExportValue() any {
	text := []string{}
	if s.Value != "" {
		text = append(text, s.Value)
	}
	return map[string][]string{"text": text}
}

// CarryInto implements store.Carrier: the typed answer survives a re-render.
func (s TextAreaState) CarryInto(next TextAreaState) TextAreaState {
	next.Value = s.Value
	return next
}

func (k *Kit) mountTextArea(m registry.Mount) func() {
	return k.TextAreas.Register(m.ID, TextAreaState{
		Base: newBase(m, "toName", "value", "placeholder", "label", "rows",
			"maxSubmissions", "editable", "required"),
		ToName:         m.Props.Get("toName"),
		Value:          m.Props.Get("value"),
		Placeholder:    m.Props.Get("placeholder"),
		Label:          m.Props.Get("label"),
		Rows:           max(m.Props.Int("rows", 1), 1),
		MaxSubmissions: m.Props.Int("maxSubmissions", 0),
		Editable:       m.Props.Flag("editable"),
		Required:       m.Props.Flag("required"),
	})
}

// SetText replaces the answer of the text area with id. Non-editable text
// areas keep their value.
func (k *Kit) SetText(id, value string) bool {
	ta, ok := k.TextAreas.Instance(id)
	if !ok || !ta.Editable.Bool(true) {
		return false
	}
	return k.TextAreas.Update(id, func(s TextAreaState) TextAreaState {
		s.Value = value
		return s
	})
}
