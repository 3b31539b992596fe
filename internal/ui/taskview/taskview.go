// Package taskview renders a mounted markup tree as terminal text using the
// live widget stores, so what is shown always reflects current answers.
package taskview

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/ui/styles"
	"github.com/zjrosen/htx/internal/widgets"
)

// DefaultWidth is used when no width is configured.
const DefaultWidth = 80

// ControlKind tells which interaction a control accepts.
type ControlKind int

const (
	ControlChoice ControlKind = iota
	ControlTextArea
)

// Control is one focusable element of a rendered task.
type Control struct {
	ID      string
	Kind    ControlKind
	GroupID string // parent Choices id for ControlChoice
	Hotkey  string
}

// Renderer turns a tree into a string. The zero value is not usable; use New.
type Renderer struct {
	kit       *widgets.Kit
	width     int
	focus     string
	editor    string
	sanitizer *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width in cells.
func WithWidth(w int) Option {
	return func(r *Renderer) {
		if w > 0 {
			r.width = w
		}
	}
}

// New creates a renderer reading state from kit.
func New(kit *widgets.Kit, opts ...Option) *Renderer {
	r := &Renderer{
		kit:       kit,
		width:     DefaultWidth,
		sanitizer: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// SetWidth changes the wrap width; values below one are ignored.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.width = w
	}
}

// SetFocus marks the control with id as focused. editor, when not empty,
// replaces the body of a focused text area.
func (r *Renderer) SetFocus(id, editor string) {
	r.focus, r.editor = id, editor
}

// Render draws every root of tree.
func (r *Renderer) Render(tree *markup.Tree) string {
	if tree == nil {
		return ""
	}
	blocks := make([]string, 0, len(tree.Roots))
	for _, root := range tree.Roots {
		if s := r.element(root, r.width); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n")
}

// Controls lists the focusable controls of tree in document order. Controls
// inside hidden views are skipped.
func (r *Renderer) Controls(tree *markup.Tree) []Control {
	var out []Control
	if tree == nil {
		return out
	}
	tree.Walk(func(el *markup.Element, _ int) bool {
		if !r.visible(el) {
			return false
		}
		switch el.Tag {
		case widgets.KindChoice:
			if c, ok := r.kit.Items.Instance(el.ID); ok {
				out = append(out, Control{ID: el.ID, Kind: ControlChoice, GroupID: c.ParentID, Hotkey: c.Hotkey})
			}
		case widgets.KindTextArea:
			if ta, ok := r.kit.TextAreas.Instance(el.ID); ok && ta.Editable.Bool(true) {
				out = append(out, Control{ID: el.ID, Kind: ControlTextArea})
			}
		}
		return true
	})
	return out
}

func (r *Renderer) visible(el *markup.Element) bool {
	switch el.Tag {
	case widgets.KindView:
		if v, ok := r.kit.Views.Instance(el.ID); ok {
			return v.IsVisible()
		}
	case widgets.KindChoices:
		if c, ok := r.kit.Choices.Instance(el.ID); ok {
			return c.IsVisible()
		}
	}
	return true
}

func (r *Renderer) element(el *markup.Element, width int) string {
	if el.IsText() {
		return wrap(el.Text, width)
	}
	if el.Native {
		return r.children(el, width, false)
	}
	if !r.visible(el) {
		return ""
	}

	switch el.Tag {
	case widgets.KindView:
		return r.view(el, width)
	case widgets.KindHeader:
		return r.header(el.ID, width)
	case widgets.KindText:
		if st, ok := r.kit.Texts.Instance(el.ID); ok {
			return styles.FromStyle(styles.TextStyle, st.Style).Render(wrap(st.Content(), width))
		}
	case widgets.KindHyperText:
		if st, ok := r.kit.HyperTexts.Instance(el.ID); ok {
			body := st.Value
			if body == "" {
				body = st.Text
			}
			return styles.FromStyle(styles.TextStyle, st.Style).Render(wrap(r.plain(body), width))
		}
	case widgets.KindChoices:
		return r.choices(el, width)
	case widgets.KindChoice:
		return r.choiceRow(el.ID, widgets.Multiple)
	case widgets.KindTextArea:
		return r.textArea(el.ID, width)
	}
	// Registered by someone else: show the children.
	return r.children(el, width, false)
}

func (r *Renderer) children(el *markup.Element, width int, inline bool) string {
	parts := make([]string, 0, len(el.Children))
	for _, child := range el.Children {
		if s := r.element(child, width); s != "" {
			parts = append(parts, s)
		}
	}
	if inline {
		return lipgloss.JoinHorizontal(lipgloss.Top, spaced(parts)...)
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) view(el *markup.Element, width int) string {
	st, ok := r.kit.Views.Instance(el.ID)
	if !ok {
		return r.children(el, width, false)
	}
	body := r.children(el, width, st.Display == widgets.DisplayInline)
	if body == "" {
		return ""
	}
	return styles.FromStyle(lipgloss.NewStyle(), st.Style).Render(body)
}

func (r *Renderer) header(id string, width int) string {
	st, ok := r.kit.Headers.Instance(id)
	if !ok {
		return ""
	}
	base := styles.HeaderStyle
	if st.Size >= 3 {
		base = styles.SubHeaderStyle
	}
	text := wrap(st.Label(), width)
	if st.Size == 1 {
		text = strings.ToUpper(text)
	}
	return styles.FromStyle(base, st.Style).Render(text)
}

func (r *Renderer) choices(el *markup.Element, width int) string {
	group, ok := r.kit.Choices.Instance(el.ID)
	if !ok {
		return r.children(el, width, false)
	}

	var rows, extra []string
	focused := false
	for _, child := range el.Children {
		if child.Tag == widgets.KindChoice {
			rows = append(rows, r.choiceRow(child.ID, group.Mode))
			focused = focused || child.ID == r.focus
			continue
		}
		if s := r.element(child, width-2); s != "" {
			extra = append(extra, s)
		}
	}
	if group.ShowInline.Bool(false) || group.Layout == "inline" {
		rows = []string{strings.Join(rows, "  ")}
	}

	title := group.Name
	if title == "" {
		title = "choices"
	}
	if group.Required.Bool(false) {
		title += styles.RequiredStyle.Render(" *")
	}
	out := styles.RenderSection(append(rows, extra...), title, string(group.Mode), width, focused)
	return styles.FromStyle(lipgloss.NewStyle(), group.Style).Render(out)
}

func (r *Renderer) choiceRow(id string, mode widgets.SelectionMode) string {
	c, ok := r.kit.Items.Instance(id)
	if !ok {
		return ""
	}
	checked := c.Checked.Bool(false)

	var mark string
	switch {
	case mode == widgets.Single && checked:
		mark = "(•)"
	case mode == widgets.Single:
		mark = "( )"
	case checked:
		mark = "[x]"
	default:
		mark = "[ ]"
	}
	if checked {
		mark = styles.CheckedStyle.Render(mark)
	}

	label := r.plain(c.Label())
	if c.Color != "" {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(label)
	}
	row := mark + " " + styles.FromStyle(lipgloss.NewStyle(), c.Style).Render(label)
	if c.Hotkey != "" {
		row += " " + styles.HotkeyStyle.Render("["+c.Hotkey+"]")
	}
	if c.Hint != "" {
		row += " " + styles.HintStyle.Render(c.Hint)
	}

	prefix := "  "
	if id == r.focus {
		prefix = styles.SelectionIndicatorStyle.Render(">") + " "
	}
	return prefix + row
}

func (r *Renderer) textArea(id string, width int) string {
	ta, ok := r.kit.TextAreas.Instance(id)
	if !ok {
		return ""
	}
	focused := id == r.focus

	var lines []string
	switch {
	case focused && r.editor != "":
		lines = strings.Split(r.editor, "\n")
	case ta.Value != "":
		lines = strings.Split(wrap(ta.Value, width-2), "\n")
	default:
		lines = []string{styles.PlaceholderStyle.Render(ta.Placeholder)}
	}
	for len(lines) < ta.Rows {
		lines = append(lines, "")
	}

	title := ta.Label
	if title == "" {
		title = ta.Name
	}
	if ta.Required.Bool(false) {
		title += styles.RequiredStyle.Render(" *")
	}
	hint := ""
	if !ta.Editable.Bool(true) {
		hint = "read-only"
	}
	return styles.RenderSection(lines, title, hint, width, focused)
}

// plain strips markup from HTML content and decodes entities.
func (r *Renderer) plain(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(s)))
}

func wrap(s string, width int) string {
	s = strings.TrimSpace(s)
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

func spaced(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}
