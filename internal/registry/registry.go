package registry

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/pubsub"
	"github.com/zjrosen/htx/internal/store"
)

// Registry errors
var (
	ErrEmptyTag = errors.New("component tag cannot be empty")
	ErrNilView  = errors.New("component view cannot be nil")
)

// DefaultDebounce is the coalescing window of the export stream.
const DefaultDebounce = 300 * time.Millisecond

// EventKind names a registry lifecycle event.
type EventKind string

const (
	ComponentRegistered   EventKind = "component-registered"
	ComponentUnregistered EventKind = "component-unregistered"
	RegistryCleared       EventKind = "registry-cleared"
)

// Event is published on the registry broker after each lifecycle change.
type Event struct {
	Kind EventKind
	Tag  string
}

// Stats summarizes the registry contents.
type Stats struct {
	TotalComponents int      `json:"totalComponents"`
	TotalStores     int      `json:"totalStores"`
	Components      []string `json:"components"`
}

// regionEntry records a region type and the object tag it belongs to.
type regionEntry struct {
	object   string
	region   Region
	detector func(string) bool
}

// Registry is the catalog of component definitions.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*Definition
	order      []string
	regions    []regionEntry
	subs       map[*valuesSubscription]struct{}

	broker   *pubsub.Broker[Event]
	newID    func() string
	debounce time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDSource replaces the generator for export record ids.
func WithIDSource(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithDebounce sets the coalescing window of SubscribeInstancesValuesChanges.
func WithDebounce(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.debounce = d
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		components: make(map[string]*Definition),
		subs:       make(map[*valuesSubscription]struct{}),
		broker:     pubsub.NewBroker[Event](),
		newID:      NewExportID,
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewExportID returns a short random id for an export record.
func NewExportID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// RegisterComponent inserts def under def.Tag. Registering a tag twice logs a
// warning and keeps the last definition.
func (r *Registry) RegisterComponent(def Definition) error {
	if def.Tag == "" {
		return ErrEmptyTag
	}
	if def.View == nil {
		return ErrNilView
	}

	r.mu.Lock()
	prev, exists := r.components[def.Tag]
	if exists {
		log.Warn(log.CatRegistry, "component already registered, overwriting", "tag", def.Tag)
		r.regions = slices.DeleteFunc(r.regions, func(e regionEntry) bool { return e.object == def.Tag })
	} else {
		r.order = append(r.order, def.Tag)
	}
	stored := def
	r.components[def.Tag] = &stored
	if def.Region != nil {
		r.regions = append(r.regions, regionEntry{object: def.Tag, region: *def.Region, detector: def.Config.Detector})
	}
	for sub := range r.subs {
		if exists {
			sub.detach(prev.Tag)
		}
		sub.attach(&stored, true)
	}
	r.mu.Unlock()

	log.Debug(log.CatRegistry, "component registered", "tag", def.Tag, "control", def.Config.IsControl)
	r.broker.Publish(pubsub.CreatedEvent, Event{Kind: ComponentRegistered, Tag: def.Tag})
	return nil
}

// RegisterComponents registers each definition in order and stops at the first error.
func (r *Registry) RegisterComponents(defs ...Definition) error {
	for _, def := range defs {
		if err := r.RegisterComponent(def); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterComponent removes the definition for tag and runs its cleanup
// hook. It reports whether anything was removed.
func (r *Registry) UnregisterComponent(tag string) bool {
	r.mu.Lock()
	def, ok := r.components[tag]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.components, tag)
	r.order = slices.DeleteFunc(r.order, func(t string) bool { return t == tag })
	r.regions = slices.DeleteFunc(r.regions, func(e regionEntry) bool { return e.object == tag })
	for sub := range r.subs {
		sub.detach(tag)
	}
	r.mu.Unlock()

	if def.Middleware != nil && def.Middleware.Cleanup != nil {
		def.Middleware.Cleanup()
	}
	r.broker.Publish(pubsub.DeletedEvent, Event{Kind: ComponentUnregistered, Tag: tag})
	return true
}

// Clear removes every definition.
func (r *Registry) Clear() {
	r.mu.Lock()
	defs := make([]*Definition, 0, len(r.order))
	for _, tag := range r.order {
		defs = append(defs, r.components[tag])
		for sub := range r.subs {
			sub.detach(tag)
		}
	}
	r.components = make(map[string]*Definition)
	r.order = nil
	r.regions = nil
	r.mu.Unlock()

	for _, def := range defs {
		if def.Middleware != nil && def.Middleware.Cleanup != nil {
			def.Middleware.Cleanup()
		}
	}
	r.broker.Publish(pubsub.ClearedEvent, Event{Kind: RegistryCleared})
}

// Component returns the definition for tag. A miss logs a warning with the
// available tags and returns ok=false.
func (r *Registry) Component(tag string) (*Definition, bool) {
	r.mu.RLock()
	def, ok := r.components[tag]
	r.mu.RUnlock()
	if !ok {
		available := r.ComponentTags()
		list := strings.Join(available, ", ")
		if list == "" {
			list = "none"
		}
		log.Warn(log.CatRegistry, "component not registered", "tag", tag, "available", list)
		return nil, false
	}
	return def, true
}

// ComponentView returns the view for tag, or nil.
func (r *Registry) ComponentView(tag string) View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.components[tag]; ok {
		return def.View
	}
	return nil
}

// ComponentStore returns the store for tag, or nil.
func (r *Registry) ComponentStore(tag string) store.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.components[tag]; ok {
		return def.Store
	}
	return nil
}

// HasComponent reports whether tag is registered.
func (r *Registry) HasComponent(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.components[tag]
	return ok
}

// AllComponents returns the definitions in registration order.
func (r *Registry) AllComponents() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.components[tag])
	}
	return out
}

// AllComponentStores returns the distinct stores in registration order.
func (r *Registry) AllComponentStores() []store.Table {
	seen := make(map[store.Table]bool)
	var out []store.Table
	for _, def := range r.AllComponents() {
		if def.Store == nil || seen[def.Store] {
			continue
		}
		seen[def.Store] = true
		out = append(out, def.Store)
	}
	return out
}

// ComponentTags returns the registered tags in registration order.
func (r *Registry) ComponentTags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ObjectTags returns the tags flagged IsObject.
func (r *Registry) ObjectTags() []string {
	var out []string
	for _, def := range r.AllComponents() {
		if def.Config.IsObject {
			out = append(out, def.Tag)
		}
	}
	return out
}

// Regions returns every region type contributed by a definition.
func (r *Registry) Regions() []Region {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Region, len(r.regions))
	for i, e := range r.regions {
		out[i] = e.region
	}
	return out
}

// AvailableAreas returns the region types usable on object. When value is
// non-empty and a detector claims it, only that region is returned; otherwise
// the regions without a detector are.
func (r *Registry) AvailableAreas(object, value string) []Region {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plain []Region
	for _, e := range r.regions {
		if e.object != object {
			continue
		}
		if e.detector != nil {
			if value != "" && e.detector(value) {
				return []Region{e.region}
			}
			continue
		}
		plain = append(plain, e.region)
	}
	return plain
}

// Stats summarizes the registry.
func (r *Registry) Stats() Stats {
	tags := r.ComponentTags()
	return Stats{
		TotalComponents: len(tags),
		TotalStores:     len(r.AllComponentStores()),
		Components:      tags,
	}
}

// Events returns the broker carrying registry lifecycle events.
func (r *Registry) Events() *pubsub.Broker[Event] {
	return r.broker
}
