package registry

import (
	"sync"
	"time"
)

// SubscribeInstancesValuesChanges calls fn with a fresh export snapshot after
// control instances change. Changes arriving within the debounce window are
// coalesced into one call carrying the latest snapshot. Control definitions
// registered after the call are watched too.
func (r *Registry) SubscribeInstancesValuesChanges(fn func(map[string]ExportRecord)) (unsubscribe func()) {
	sub := &valuesSubscription{
		r:       r,
		fn:      fn,
		delay:   r.debounce,
		cancels: make(map[string]func()),
	}

	r.mu.Lock()
	for _, tag := range r.order {
		sub.attach(r.components[tag], false)
	}
	r.subs[sub] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, sub)
			r.mu.Unlock()
			sub.close()
		})
	}
}

type valuesSubscription struct {
	r     *Registry
	fn    func(map[string]ExportRecord)
	delay time.Duration

	mu      sync.Mutex
	cancels map[string]func()
	timer   *time.Timer
	gen     uint64
	closed  bool
}

// attach starts watching def's store when def is a control. With announce
// set, a store that already holds instances schedules a delivery.
func (s *valuesSubscription) attach(def *Definition, announce bool) {
	if def == nil || !def.Config.IsControl || def.Store == nil {
		return
	}
	cancel := def.Store.Watch(func(string) { s.poke() })

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	if prev, ok := s.cancels[def.Tag]; ok {
		prev()
	}
	s.cancels[def.Tag] = cancel
	s.mu.Unlock()

	if announce && len(def.Store.InstanceKeys()) > 0 {
		s.poke()
	}
}

// detach stops watching tag. Dropping a watched store changes the snapshot.
func (s *valuesSubscription) detach(tag string) {
	s.mu.Lock()
	cancel, ok := s.cancels[tag]
	delete(s.cancels, tag)
	s.mu.Unlock()
	if ok {
		cancel()
		s.poke()
	}
}

func (s *valuesSubscription) poke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *valuesSubscription) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.fn(s.r.InstancesValues())
}

func (s *valuesSubscription) close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
