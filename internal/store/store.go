package store

import (
	"fmt"
	"sync"

	"dario.cat/mergo"

	"github.com/zjrosen/htx/internal/log"
)

// Table is the kind-agnostic view of a Store used by the component registry.
type Table interface {
	// Kind returns the widget kind the table holds.
	Kind() string

	// InstanceKeys returns the ids of all live instances in registration order.
	InstanceKeys() []string

	// Lookup returns the instance state boxed as any.
	Lookup(id string) (any, bool)

	// Snapshot returns every live instance state boxed as any, in registration order.
	Snapshot() []any

	// Watch calls fn with the id of every instance that changes.
	Watch(fn func(id string)) (cancel func())

	// Carry overlays the answer held by prev, a state previously obtained
	// from Lookup, onto the live instance at id.
	Carry(id string, prev any) bool
}

// Carrier is implemented by states that keep part of themselves when their
// instance is mounted again. CarryInto returns next with that part copied in.
type Carrier[S any] interface {
	CarryInto(next S) S
}

// Listener receives the new state of an instance; ok is false once the
// instance is gone.
type Listener[S any] func(state S, ok bool)

// Store owns the live instances of one widget kind.
type Store[S any] struct {
	kind     string
	defaults func() S

	mu        sync.RWMutex
	instances map[string]S
	order     []string

	subMu    sync.Mutex
	nextSub  uint64
	subs     map[string]map[uint64]Listener[S]
	watchers map[uint64]func(id string)
}

// Compile-time check that Store implements Table.
var _ Table = (*Store[struct{}])(nil)

// New creates an empty store. defaults builds the bottom merge layer for every
// registration; nil means the zero value of S.
func New[S any](kind string, defaults func() S) *Store[S] {
	if defaults == nil {
		defaults = func() S {
			var zero S
			return zero
		}
	}
	return &Store[S]{
		kind:      kind,
		defaults:  defaults,
		instances: make(map[string]S),
		subs:      make(map[string]map[uint64]Listener[S]),
		watchers:  make(map[uint64]func(string)),
	}
}

// Kind returns the widget kind this store holds.
func (s *Store[S]) Kind() string {
	return s.kind
}

// Register upserts the instance at id and returns a disposer that unregisters it.
// Callers must supply a non-empty id.
func (s *Store[S]) Register(id string, state S) (unregister func()) {
	if id == "" {
		log.Warn(log.CatStore, "register called without id", "kind", s.kind)
		return func() {}
	}

	s.mu.Lock()
	prev, existed := s.instances[id]
	layers := []S{s.defaults()}
	if existed {
		layers = append(layers, prev)
	}
	layers = append(layers, state)
	merged, err := Merge(layers...)
	if err != nil {
		s.mu.Unlock()
		log.ErrorErr(log.CatStore, "merge failed", err, "kind", s.kind, "id", id)
		return func() { s.Unregister(id) }
	}
	s.instances[id] = merged
	if !existed {
		s.order = append(s.order, id)
	}
	s.mu.Unlock()

	log.Debug(log.CatStore, "registered", "kind", s.kind, "id", id, "update", existed)
	s.notify(id, merged, true)

	var once sync.Once
	return func() { once.Do(func() { s.Unregister(id) }) }
}

// Unregister removes the instance at id. Removing an absent id is a no-op.
func (s *Store[S]) Unregister(id string) {
	s.mu.Lock()
	if _, ok := s.instances[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.instances, id)
	for i, key := range s.order {
		if key == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	log.Debug(log.CatStore, "unregistered", "kind", s.kind, "id", id)
	var zero S
	s.notify(id, zero, false)
}

// Carry implements Table. It reports false when prev is not an S, when S
// does not implement Carrier or when id is not registered.
func (s *Store[S]) Carry(id string, prev any) bool {
	p, ok := prev.(S)
	if !ok {
		log.Warn(log.CatStore, "carry with foreign state", "kind", s.kind, "id", id, "type", fmt.Sprintf("%T", prev))
		return false
	}
	c, ok := any(p).(Carrier[S])
	if !ok {
		return false
	}
	return s.Update(id, c.CarryInto)
}

// Instance returns the state at id.
func (s *Store[S]) Instance(id string) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.instances[id]
	return state, ok
}

// Has reports whether an instance is registered at id.
func (s *Store[S]) Has(id string) bool {
	_, ok := s.Instance(id)
	return ok
}

// Lookup implements Table.
func (s *Store[S]) Lookup(id string) (any, bool) {
	state, ok := s.Instance(id)
	if !ok {
		return nil, false
	}
	return state, true
}

// Update applies fn to the instance at id. It returns false, without calling
// fn, when the id is not registered; mutators aimed at a group that has not
// mounted yet are therefore harmless.
func (s *Store[S]) Update(id string, fn func(S) S) bool {
	s.mu.Lock()
	state, ok := s.instances[id]
	if !ok {
		s.mu.Unlock()
		log.Debug(log.CatStore, "update on absent instance ignored", "kind", s.kind, "id", id)
		return false
	}
	state = fn(state)
	s.instances[id] = state
	s.mu.Unlock()

	s.notify(id, state, true)
	return true
}

// InstanceKeys returns the ids of all live instances in registration order.
func (s *Store[S]) InstanceKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Instances returns all live instance states in registration order.
func (s *Store[S]) Instances() []S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]S, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.instances[id])
	}
	return out
}

// Snapshot implements Table.
func (s *Store[S]) Snapshot() []any {
	states := s.Instances()
	out := make([]any, len(states))
	for i, st := range states {
		out[i] = st
	}
	return out
}

// Len returns the number of live instances.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Subscribe calls fn whenever the instance at id changes, including when it is
// unregistered. The id does not need to exist yet. The returned function
// unsubscribes and is safe to call more than once.
func (s *Store[S]) Subscribe(id string, fn Listener[S]) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextSub++
	key := s.nextSub
	if s.subs[id] == nil {
		s.subs[id] = make(map[uint64]Listener[S])
	}
	s.subs[id][key] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if subs, ok := s.subs[id]; ok {
			delete(subs, key)
			if len(subs) == 0 {
				delete(s.subs, id)
			}
		}
	}
}

// Watch implements Table.
func (s *Store[S]) Watch(fn func(id string)) (cancel func()) {
	s.subMu.Lock()
	s.nextSub++
	key := s.nextSub
	s.watchers[key] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.watchers, key)
		s.subMu.Unlock()
	}
}

// SubscriberCount returns the number of listeners attached to id.
func (s *Store[S]) SubscriberCount(id string) int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs[id])
}

func (s *Store[S]) notify(id string, state S, ok bool) {
	s.subMu.Lock()
	listeners := make([]Listener[S], 0, len(s.subs[id]))
	for _, fn := range s.subs[id] {
		listeners = append(listeners, fn)
	}
	watchers := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(state, ok)
	}
	for _, fn := range watchers {
		fn(id)
	}
}

// Merge folds layers left to right; a non-zero field in a later layer wins.
// Maps are merged key by key.
func Merge[S any](layers ...S) (S, error) {
	var out S
	for i, layer := range layers {
		if err := mergo.Merge(&out, layer, mergo.WithOverride); err != nil {
			return out, fmt.Errorf("merging layer %d: %w", i, err)
		}
	}
	return out, nil
}
