// Package widgets provides stock widgets that satisfy the widget contract
// (text inputs, checkboxes, selects, sortable lists and a validating wrapper)
// and a priority registry that picks a widget kind for each schema field.
//
// Widgets have value semantics: Bind returns a bound copy and the original
// stays untouched, so the same layout can be bound repeatedly.
package widgets
