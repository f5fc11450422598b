// Package binder connects a schema to a host widget tree. A Binder keeps the
// live values and error messages of one form, injects them into bindable
// widgets on every Bind, applies change events (optionally debounced per
// field) and validates on Submit before handing values to the host.
//
// All methods are safe for concurrent use. Host callbacks run without
// internal locks held and receive snapshots they may keep.
package binder
