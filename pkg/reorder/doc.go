// Package reorder implements drag-to-reorder for item lists as an explicit
// Idle/Dragging state machine. Hosts feed it drag start, hover, drop and
// toggle gestures, either directly or through a GestureSource, and receive
// the full sequence after each committed change.
package reorder
