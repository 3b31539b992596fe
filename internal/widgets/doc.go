// Package widgets implements the htx widget kinds on top of the instance
// stores and the component registry.
//
// Every kind follows the same contract: its view registers the instance on
// mount, subscribes to whatever other instances it depends on, and returns a
// disposer that drops the subscriptions and unregisters the instance
// together. Cross-kind reads go through the other kind's store by id and
// treat a missing instance as "no state".
package widgets
