package widgets

import (
	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/registry"
)

// Display modes of a View.
const (
	DisplayBlock  = "block"
	DisplayInline = "inline"
)

// ViewState is a layout container.
type ViewState struct {
	Base
	Gate
	Display   string
	ClassName string
	IDAttr    string
}

func (k *Kit) mountView(m registry.Mount) func() {
	st := ViewState{
		Base:      newBase(m, append([]string{"display", "className", "idAttr"}, gateAttrs...)...),
		Gate:      gateFromProps(m.Props),
		Display:   m.Props.Get("display"),
		ClassName: m.Props.Get("className"),
		IDAttr:    m.Props.Get("idAttr"),
	}
	if st.Display == "" {
		st.Display = DisplayBlock
	}

	unregister := k.Views.Register(m.ID, st)
	unbind := bindGate(st.Gate, k.Choices, func(visible bool) {
		k.SetViewVisible(m.ID, visible)
	})
	return func() {
		unbind()
		unregister()
	}
}

// SetViewVisible writes the display gate of a View.
func (k *Kit) SetViewVisible(id string, visible bool) bool {
	return k.Views.Update(id, func(s ViewState) ViewState {
		s.Visible = attr.FlagOf(visible)
		return s
	})
}
