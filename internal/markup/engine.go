package markup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/cachemanager"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/store"
)

// Span attribute keys.
const (
	attrMarkupBytes = "htx.markup.bytes"
	attrRoots       = "htx.markup.roots"
	attrElements    = "htx.render.elements"
	attrNative      = "htx.render.native"
	attrCarried     = "htx.render.carried"
)

// Engine parses markup and renders it through a registry.
type Engine struct {
	reg    *registry.Registry
	newID  func(tag string) string
	tracer trace.Tracer
	parses *cachemanager.ReadThroughCache[[]*Node, string]
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	newID  func(tag string) string
	tracer trace.Tracer
	cache  cachemanager.CacheManager[[]*Node]
	bypass bool
}

// WithIDSource replaces the generator for identities of unnamed elements.
func WithIDSource(fn func(tag string) string) Option {
	return func(o *engineOptions) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithTracer sets the tracer for parse and render spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *engineOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithParseCache sets the cache holding parsed documents.
func WithParseCache(c cachemanager.CacheManager[[]*Node]) Option {
	return func(o *engineOptions) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithoutParseCache parses on every call.
func WithoutParseCache() Option {
	return func(o *engineOptions) {
		o.bypass = true
	}
}

// NewID returns "<tag>-<random>".
func NewID(tag string) string {
	return tag + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewEngine creates an engine rendering through reg.
func NewEngine(reg *registry.Registry, opts ...Option) *Engine {
	o := engineOptions{
		newID:  NewID,
		tracer: otel.Tracer("github.com/zjrosen/htx/internal/markup"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = cachemanager.NewInMemoryCacheManager[[]*Node]("markup-parse", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	}

	return &Engine{
		reg:    reg,
		newID:  o.newID,
		tracer: o.tracer,
		parses: cachemanager.NewReadThroughCache(o.cache, func(_ context.Context, src string) ([]*Node, error) {
			return Parse(src)
		}, o.bypass),
	}
}

// Registry returns the registry the engine renders through.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Parse parses src, reusing an earlier result for identical text.
func (e *Engine) Parse(ctx context.Context, src string) ([]*Node, error) {
	_, span := e.tracer.Start(ctx, "markup.parse", trace.WithAttributes(attribute.Int(attrMarkupBytes, len(src))))
	defer span.End()

	nodes, err := e.parses.Get(ctx, contentKey(src), src, 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatParse, "parse failed", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(attrRoots, len(nodes)))
	return nodes, nil
}

// Render parses src and renders it. data feeds "$key" substitution and priors
// overlays attributes by element identity.
func (e *Engine) Render(ctx context.Context, src string, data map[string]string, priors map[string]attr.Props) (*Tree, error) {
	nodes, err := e.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.RenderNodes(ctx, nodes, data, priors), nil
}

// RenderNodes renders already parsed nodes.
func (e *Engine) RenderNodes(ctx context.Context, nodes []*Node, data map[string]string, priors map[string]attr.Props) *Tree {
	_, span := e.tracer.Start(ctx, "markup.render")
	defer span.End()

	w := &walk{engine: e, data: data, priors: priors, used: make(map[string]bool)}
	tree := &Tree{}
	for _, n := range nodes {
		tree.Roots = append(tree.Roots, w.render(n, ""))
	}

	for id := range priors {
		if !w.used[id] {
			log.Warn(log.CatRender, "prior values for unknown instance", "id", id)
		}
	}

	span.SetAttributes(
		attribute.Int(attrElements, w.elements),
		attribute.Int(attrNative, w.native),
	)
	log.Debug(log.CatRender, "rendered tree", "elements", w.elements, "native", w.native)
	return tree
}

// Rerender replaces prev with a render of src. Instances whose tag and name
// appear in both documents are mounted fresh from the new markup and then
// get their answer carried over from prev; the carried answer wins over
// priors. The rest of prev is torn down. On a parse error prev stays mounted.
func (e *Engine) Rerender(ctx context.Context, prev *Tree, src string, data map[string]string, priors map[string]attr.Props) (*Tree, error) {
	nodes, err := e.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	type carried struct {
		table store.Table
		id    string
		state any
	}
	keep := namedKeys(nodes)
	var carry []carried
	prev.Walk(func(el *Element, _ int) bool {
		if el.IsText() || !keep[elementKey{el.Tag, el.ID}] {
			return true
		}
		table := e.reg.ComponentStore(el.Tag)
		if table == nil {
			return true
		}
		if state, ok := table.Lookup(el.ID); ok {
			carry = append(carry, carried{table: table, id: el.ID, state: state})
		}
		return true
	})
	prev.Unmount()

	if len(carry) > 0 && len(priors) > 0 {
		filtered := maps.Clone(priors)
		for _, c := range carry {
			delete(filtered, c.id)
		}
		priors = filtered
	}

	ctx, span := e.tracer.Start(ctx, "markup.rerender", trace.WithAttributes(attribute.Int(attrCarried, len(carry))))
	defer span.End()
	tree := e.RenderNodes(ctx, nodes, data, priors)
	for _, c := range carry {
		c.table.Carry(c.id, c.state)
	}
	return tree, nil
}

type elementKey struct {
	tag string
	id  string
}

func namedKeys(nodes []*Node) map[elementKey]bool {
	keys := make(map[elementKey]bool)
	for _, root := range nodes {
		root.Walk(func(n *Node) bool {
			if name := n.Name(); !n.IsText() && name != "" {
				keys[elementKey{n.Tag, name}] = true
			}
			return true
		})
	}
	return keys
}

// walk holds the state of one render pass.
type walk struct {
	engine *Engine
	data   map[string]string
	priors map[string]attr.Props
	used   map[string]bool

	elements int
	native   int
}

func (w *walk) render(n *Node, parentID string) *Element {
	if n.IsText() {
		return &Element{Text: n.Text, ParentID: parentID}
	}

	id := n.Name()
	if id == "" {
		id = w.engine.newID(n.Tag)
	}

	def, found := w.engine.reg.Component(n.Tag)

	props := n.Props()
	if found && def.Config.DefaultProps != nil {
		props = def.Config.DefaultProps.Overlay(props)
	}
	props = Substitute(props, w.data)
	if prior, ok := w.priors[id]; ok {
		props = props.Overlay(prior)
		w.used[id] = true
	}

	el := &Element{
		Tag:      n.Tag,
		ID:       id,
		ParentID: parentID,
		Props:    props,
		Native:   !found,
	}
	w.elements++

	if found {
		m := registry.Mount{
			Tag:      n.Tag,
			ID:       id,
			ParentID: parentID,
			Props:    props.Clone(),
			Text:     n.InnerText(),
		}
		mw := def.Middleware
		if mw != nil && mw.BeforeRender != nil {
			mw.BeforeRender(m)
		}
		el.dispose = def.View.Mount(m)
		if el.dispose == nil {
			el.dispose = func() {}
		}
		if mw != nil && mw.AfterRender != nil {
			mw.AfterRender(m)
		}
	} else {
		w.native++
	}

	for _, c := range n.Children {
		el.Children = append(el.Children, w.render(c, id))
	}
	return el
}

func contentKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
