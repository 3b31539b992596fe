// Package registry implements the component registry: the catalog that maps a
// markup tag to its instance store, its view and its capability flags.
//
// A Registry is an ordinary value. The CLI builds one per process; tests build
// a fresh one per case.
//
// # Lookups
//
// Markup may name a tag whose definition is registered later (or never).
// Lookups therefore never fail hard: Component returns ok=false and logs a
// warning listing the available tags, and the render engine falls back to a
// passthrough element.
//
// # Export
//
// Definitions flagged IsControl contribute their instances to the export
// snapshot. InstancesValues builds it synchronously;
// SubscribeInstancesValuesChanges delivers it debounced whenever any control
// instance changes.
package registry
