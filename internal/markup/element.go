package markup

import (
	"sync"

	"github.com/zjrosen/htx/internal/attr"
)

// Element is one rendered node. Text elements carry only Text and ParentID.
type Element struct {
	Tag      string
	ID       string
	ParentID string
	Props    attr.Props
	Text     string
	Children []*Element

	// Native marks a tag with no registered definition.
	Native bool

	dispose func()
	once    sync.Once
}

// IsText reports whether e is a literal text child.
func (e *Element) IsText() bool {
	return e.Tag == ""
}

// Mounted reports whether e was instantiated through a registered view.
func (e *Element) Mounted() bool {
	return e.dispose != nil
}

// InnerText joins the direct text children with single spaces.
func (e *Element) InnerText() string {
	var out string
	for _, c := range e.Children {
		if !c.IsText() {
			continue
		}
		if out != "" {
			out += " "
		}
		out += c.Text
	}
	return out
}

// Unmount disposes the children in reverse order, then e itself. Only the
// first call has an effect.
func (e *Element) Unmount() {
	e.once.Do(func() {
		for i := len(e.Children) - 1; i >= 0; i-- {
			e.Children[i].Unmount()
		}
		if e.dispose != nil {
			e.dispose()
		}
	})
}

// Walk visits e and its descendants in pre-order with their depth. Returning
// false skips the element's children.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(*Element, int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}

// Tree is the result of one render.
type Tree struct {
	Roots []*Element
}

// Walk visits every element of the tree in document order.
func (t *Tree) Walk(fn func(el *Element, depth int) bool) {
	if t == nil {
		return
	}
	for _, r := range t.Roots {
		r.Walk(fn)
	}
}

// Find returns the first element with the given identity.
func (t *Tree) Find(id string) *Element {
	var found *Element
	t.Walk(func(el *Element, _ int) bool {
		if found != nil {
			return false
		}
		if !el.IsText() && el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Elements returns the non-text elements in document order.
func (t *Tree) Elements() []*Element {
	var out []*Element
	t.Walk(func(el *Element, _ int) bool {
		if !el.IsText() {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Len counts the non-text elements.
func (t *Tree) Len() int {
	return len(t.Elements())
}

// Unmount disposes every root in reverse order.
func (t *Tree) Unmount() {
	if t == nil {
		return
	}
	for i := len(t.Roots) - 1; i >= 0; i-- {
		t.Roots[i].Unmount()
	}
}
