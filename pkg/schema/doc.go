// Package schema defines the ordered field model bound to widget trees. A
// Schema maps field names to their current value, the validators that guard
// them and an optional companion value. Insertion order is kept for rendering;
// validation never depends on it. Values() is the flat name → value snapshot
// handed to host callbacks and to the validation engine.
package schema
