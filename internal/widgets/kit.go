package widgets

import (
	"strings"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/store"
)

// Kit owns one store per widget kind and the views mounting into them.
type Kit struct {
	Views      *store.Store[ViewState]
	Headers    *store.Store[HeaderState]
	Texts      *store.Store[TextState]
	HyperTexts *store.Store[HyperTextState]
	Choices    *store.Store[ChoicesState]
	Items      *store.Store[ChoiceState]
	TextAreas  *store.Store[TextAreaState]
}

// Compile-time check that answers survive a re-render.
var (
	_ store.Carrier[ChoicesState]  = ChoicesState{}
	_ store.Carrier[TextAreaState] = TextAreaState{}
)

// NewKit creates empty stores for every kind.
func NewKit() *Kit {
	return &Kit{
		Views: store.New(KindView, func() ViewState {
			return ViewState{Base: Base{Type: KindView, Visible: attr.True}, Display: DisplayBlock}
		}),
		Headers: store.New(KindHeader, func() HeaderState {
			return HeaderState{Base: Base{Type: KindHeader, Visible: attr.True}, Size: 1}
		}),
		Texts: store.New(KindText, func() TextState {
			return TextState{Base: Base{Type: KindText, Visible: attr.True}}
		}),
		HyperTexts: store.New(KindHyperText, func() HyperTextState {
			return HyperTextState{Base: Base{Type: KindHyperText, Visible: attr.True}}
		}),
		Choices: store.New(KindChoices, func() ChoicesState {
			return ChoicesState{Base: Base{Type: KindChoices, Visible: attr.True}, Mode: Single}
		}),
		Items: store.New(KindChoice, func() ChoiceState {
			return ChoiceState{Base: Base{Type: KindChoice, Visible: attr.True}}
		}),
		TextAreas: store.New(KindTextArea, func() TextAreaState {
			return TextAreaState{Base: Base{Type: KindTextArea, Visible: attr.True}, Rows: 1}
		}),
	}
}

// Definitions returns the registry definitions of every kind.
func (k *Kit) Definitions() []registry.Definition {
	return []registry.Definition{
		{
			Tag:    KindView,
			Store:  k.Views,
			View:   registry.ViewFunc(k.mountView),
			Config: registry.Config{AutoInit: true},
		},
		{
			Tag:    KindHeader,
			Store:  k.Headers,
			View:   registry.ViewFunc(k.mountHeader),
			Config: registry.Config{DefaultProps: attr.Props{"size": "1"}},
		},
		{
			Tag:    KindText,
			Store:  k.Texts,
			View:   registry.ViewFunc(k.mountText),
			Config: registry.Config{IsObject: true},
			Region: &registry.Region{Name: "TextRegion", NodeView: &registry.NodeView{Name: "Text", Icon: "¶"}},
		},
		{
			Tag:    KindHyperText,
			Store:  k.HyperTexts,
			View:   registry.ViewFunc(k.mountHyperText),
			Config: registry.Config{IsObject: true, Detector: looksLikeHTML},
			Region: &registry.Region{Name: "HyperTextRegion", NodeView: &registry.NodeView{Name: "HTML", Icon: "<>"}},
		},
		{
			Tag:    KindChoices,
			Store:  k.Choices,
			View:   registry.ViewFunc(k.mountChoices),
			Config: registry.Config{IsControl: true, DefaultProps: attr.Props{"choice": string(Single)}},
		},
		{
			Tag:   KindChoice,
			Store: k.Items,
			View:  registry.ViewFunc(k.mountChoice),
		},
		{
			Tag:    KindTextArea,
			Store:  k.TextAreas,
			View:   registry.ViewFunc(k.mountTextArea),
			Config: registry.Config{IsControl: true, DefaultProps: attr.Props{"editable": "true"}},
		},
	}
}

// Install creates a kit and registers every kind with reg.
func Install(reg *registry.Registry) (*Kit, error) {
	k := NewKit()
	if err := reg.RegisterComponents(k.Definitions()...); err != nil {
		return nil, err
	}
	return k, nil
}

func looksLikeHTML(value string) bool {
	v := strings.TrimSpace(value)
	return strings.HasPrefix(v, "<") || strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
