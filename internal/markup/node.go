package markup

import (
	"strings"

	"github.com/zjrosen/htx/internal/attr"
)

// Attr is one attribute of a node, in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one parsed tag, or a literal text child when Tag is empty.
// Nodes are shared by cached parses and must not be modified.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string

	Line   int
	Column int
}

// IsText reports whether n is a literal text child.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Name returns the name attribute, the node's explicit identity.
func (n *Node) Name() string {
	v, _ := n.Attr("name")
	return v
}

// Props copies the attributes into a fresh bag.
func (n *Node) Props() attr.Props {
	p := make(attr.Props, len(n.Attrs))
	for _, a := range n.Attrs {
		p[a.Name] = a.Value
	}
	return p
}

// InnerText joins the direct text children with single spaces.
func (n *Node) InnerText() string {
	var parts []string
	for _, c := range n.Children {
		if c.IsText() {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Walk visits n and its descendants in pre-order. Returning false skips the
// node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
