package registry

import (
	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/store"
)

// Mount is the resolved node handed to a View when it is instantiated.
type Mount struct {
	Tag      string
	ID       string
	ParentID string

	// Props holds the attributes after defaults, variable substitution and
	// the prior-value overlay.
	Props attr.Props

	// Text is the literal text content of the node's direct children.
	Text string
}

// View instantiates one widget kind. Mount must register the instance with
// its store and return a disposer that unregisters it and drops every
// subscription the instance opened.
type View interface {
	Mount(m Mount) (dispose func())
}

// ViewFunc adapts a function to View.
type ViewFunc func(m Mount) func()

// Mount implements View.
func (f ViewFunc) Mount(m Mount) func() {
	return f(m)
}

// Config holds the capability flags of a definition.
type Config struct {
	// IsControl marks kinds whose instances carry a user answer.
	IsControl bool
	// IsObject marks kinds that display task data to be labeled.
	IsObject bool
	// AutoInit marks kinds mounted without explicit host setup.
	AutoInit bool
	// DefaultProps sit underneath the markup attributes.
	DefaultProps attr.Props
	// Detector recognizes task values this kind's regions apply to.
	Detector func(value string) bool
}

// NodeView describes how a region is listed by the host.
type NodeView struct {
	Name string
	Icon string
}

// Region describes an annotation region type contributed by a definition.
type Region struct {
	Name     string
	NodeView *NodeView
}

// Middleware hooks run by the render engine around instantiation.
type Middleware struct {
	BeforeRender func(m Mount)
	AfterRender  func(m Mount)
	// Cleanup runs when the definition is unregistered.
	Cleanup func()
}

// Definition binds a tag to its store, view and flags.
type Definition struct {
	Tag        string
	Store      store.Table
	View       View
	Config     Config
	Region     *Region
	Middleware *Middleware
}
