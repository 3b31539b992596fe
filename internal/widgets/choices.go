package widgets

import (
	"slices"
	"strings"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/registry"
)

// SelectionMode of a choice group.
type SelectionMode string

const (
	Single   SelectionMode = "single"
	Multiple SelectionMode = "multiple"
)

// ParseSelectionMode reads the choice attribute; anything but "multiple" is
// single selection.
func ParseSelectionMode(s string) SelectionMode {
	if s == string(Multiple) {
		return Multiple
	}
	return Single
}

// Action applied to a group selection by Select.
type Action int

const (
	Add Action = iota
	Remove
	Toggle
)

// ChoicesState is a group of choices whose answer is the selected values.
type ChoicesState struct {
	Base
	Gate
	ToName          string
	Mode            SelectionMode
	Value           []string
	ShowInline      attr.Flag
	Required        attr.Flag
	RequiredMessage string
	Layout          string

	// Aliases maps a choice value to the value exported in its place.
	Aliases map[string]string

	// Seeded is set when the selection was supplied at mount, from the value
	// attribute or from state carried over a re-render. Preselected choices
	// are then ignored.
	Seeded bool
}

// CarryInto implements store.Carrier: the selection survives a re-render,
// everything else comes from the new markup.
func (s ChoicesState) CarryInto(next ChoicesState) ChoicesState {
	next.Value = slices.Clone(s.Value)
	if next.Mode == Single && len(next.Value) > 1 {
		next.Value = next.Value[len(next.Value)-1:]
	}
	next.Seeded = true
	return next
}

// Compile-time check that ChoicesState takes part in export.
var _ registry.Control = ChoicesState{}

func (s ChoicesState) ExportName() string   { return exportName(s.Base) }
func (s ChoicesState) ExportTarget() string { return s.ToName }

// ExportValue returns {"choices": [...]} with aliases applied.
func (s ChoicesState) ExportValue() any {
	out := make([]string, 0, len(s.Value))
	for _, v := range s.Value {
		if alias, ok := s.Aliases[v]; ok && alias != "" {
			v = alias
		}
		out = append(out, v)
	}
	return map[string][]string{"choices": out}
}

// Selected reports whether value is part of the selection.
func (s ChoicesState) Selected(value string) bool {
	return slices.Contains(s.Value, value)
}

// ChoiceState is one member of a choice group.
type ChoiceState struct {
	Base
	Value    string
	Alias    string
	Selected attr.Flag
	HTML     string
	Hint     string
	Hotkey   string
	Color    string

	// Checked mirrors the parent group's selection.
	Checked attr.Flag
}

// Label returns what the choice shows: the html, the value, or the text content.
func (s ChoiceState) Label() string {
	switch {
	case s.HTML != "":
		return s.HTML
	case s.Value != "":
		return s.Value
	}
	return s.Text
}

func (k *Kit) mountChoices(m registry.Mount) func() {
	value := m.Props.List("value")
	// "[]" is a saved empty answer and still seeds the group.
	raw, _ := m.Props.Lookup("value")
	prev, existed := k.Choices.Instance(m.ID)

	st := ChoicesState{
		Base: newBase(m, append([]string{
			"toName", "choice", "value", "showInline", "showInLine",
			"required", "requiredMessage", "layout",
		}, gateAttrs...)...),
		Gate:            gateFromProps(m.Props),
		ToName:          m.Props.Get("toName"),
		Mode:            ParseSelectionMode(m.Props.Get("choice")),
		Value:           value,
		ShowInline:      showInline(m.Props),
		Required:        m.Props.Flag("required"),
		RequiredMessage: m.Props.Get("requiredMessage"),
		Layout:          m.Props.Get("layout"),
		Seeded:          strings.TrimSpace(raw) != "" || (existed && (prev.Seeded || len(prev.Value) > 0)),
	}

	if st.WhenTagName == m.ID {
		log.Warn(log.CatRender, "choice group cannot gate on itself", "id", m.ID)
		st.Gate = Gate{}
	}

	unregister := k.Choices.Register(m.ID, st)
	unbind := bindGate(st.Gate, k.Choices, func(visible bool) {
		k.Choices.Update(m.ID, func(s ChoicesState) ChoicesState {
			s.Visible = attr.FlagOf(visible)
			return s
		})
	})
	return func() {
		unbind()
		unregister()
	}
}

func showInline(p attr.Props) attr.Flag {
	if f := p.Flag("showInline"); f != attr.Unset {
		return f
	}
	return p.Flag("showInLine")
}

// Select applies action to value in the selection of group groupID. A single
// selection group keeps only the last added value. It reports false, and
// changes nothing, when the group is not registered.
func (k *Kit) Select(groupID, value string, action Action) bool {
	ok := k.Choices.Update(groupID, func(s ChoicesState) ChoicesState {
		s.Value = applySelection(s.Value, s.Mode, value, action)
		return s
	})
	if !ok {
		log.Warn(log.CatStore, "selection for unknown choice group", "group", groupID, "value", value)
	}
	return ok
}

// SetChoices replaces the selection of group groupID.
func (k *Kit) SetChoices(groupID string, values []string) bool {
	return k.Choices.Update(groupID, func(s ChoicesState) ChoicesState {
		s.Value = append([]string{}, values...)
		if s.Mode == Single && len(s.Value) > 1 {
			s.Value = s.Value[len(s.Value)-1:]
		}
		return s
	})
}

func applySelection(current []string, mode SelectionMode, value string, action Action) []string {
	has := slices.Contains(current, value)
	if action == Toggle {
		action = Add
		if has {
			action = Remove
		}
	}

	switch action {
	case Add:
		if mode == Single {
			return []string{value}
		}
		if has {
			return slices.Clone(current)
		}
		return append(slices.Clone(current), value)
	default:
		out := make([]string, 0, len(current))
		for _, v := range current {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	}
}

func (k *Kit) setAlias(groupID, value, alias string) {
	k.Choices.Update(groupID, func(s ChoicesState) ChoicesState {
		aliases := make(map[string]string, len(s.Aliases)+1)
		for v, a := range s.Aliases {
			aliases[v] = a
		}
		aliases[value] = alias
		s.Aliases = aliases
		// Restored answers hold the exported alias.
		if slices.Contains(s.Value, alias) && !slices.Contains(s.Value, value) {
			restored := slices.Clone(s.Value)
			for i, v := range restored {
				if v == alias {
					restored[i] = value
				}
			}
			s.Value = restored
		}
		return s
	})
}

func (k *Kit) mountChoice(m registry.Mount) func() {
	st := ChoiceState{
		Base:     newBase(m, "value", "alias", "selected", "html", "hint", "hotkey", "color"),
		Value:    m.Props.Get("value"),
		Alias:    m.Props.Get("alias"),
		Selected: m.Props.Flag("selected"),
		HTML:     m.Props.Get("html"),
		Hint:     m.Props.Get("hint"),
		Hotkey:   m.Props.Get("hotkey"),
		Color:    m.Props.Get("color"),
	}
	if st.Value == "" {
		st.Value = m.Text
	}

	unregister := k.Items.Register(m.ID, st)
	if m.ParentID == "" {
		return unregister
	}

	if group, ok := k.Choices.Instance(m.ParentID); ok {
		if st.Alias != "" {
			k.setAlias(m.ParentID, st.Value, st.Alias)
		}
		if st.Selected == attr.True && !group.Seeded {
			k.Select(m.ParentID, st.Value, Add)
		}
	}

	sync := func(group ChoicesState, ok bool) {
		checked := ok && group.Selected(st.Value)
		k.Items.Update(m.ID, func(s ChoiceState) ChoiceState {
			s.Checked = attr.FlagOf(checked)
			return s
		})
	}
	unsubscribe := k.Choices.Subscribe(m.ParentID, sync)
	group, ok := k.Choices.Instance(m.ParentID)
	sync(group, ok)

	return func() {
		unsubscribe()
		unregister()
	}
}

// ToggleChoice toggles the choice with id in its parent group.
func (k *Kit) ToggleChoice(id string) bool {
	c, ok := k.Items.Instance(id)
	if !ok || c.ParentID == "" {
		return false
	}
	return k.Select(c.ParentID, c.Value, Toggle)
}

// GroupChoices returns the members of group groupID in mount order.
func (k *Kit) GroupChoices(groupID string) []ChoiceState {
	var out []ChoiceState
	for _, c := range k.Items.Instances() {
		if c.ParentID == groupID {
			out = append(out, c)
		}
	}
	return out
}
