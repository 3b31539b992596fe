// Package store implements instance stores: one keyed table of live widget
// state per widget kind.
//
// # Lifecycle
//
// A widget registers its instance on mount with Register, which upserts the
// state using the layered merge
//
//	kind defaults ⊕ previous instance at the same id ⊕ new state
//
// where a non-zero field in a later layer overrides the earlier one. The
// returned disposer unregisters the same id. Kind-specific mutators go
// through Update so they share the notification path.
//
// # Notifications
//
// Subscribe is scoped to a single id: changing instance X never calls a
// subscriber that only asked for Y. Callbacks run synchronously after the
// mutation is applied, outside the store lock, so they may read any store.
// Watch observes every id of the store and is meant for aggregation, not
// per-render reactivity.
//
// # States
//
// States are plain structs treated as immutable values: mutators build a new
// value rather than editing slices or maps in place. Zero values mean "not
// set" for merge purposes, which is why boolean-like fields use attr.Flag.
package store
