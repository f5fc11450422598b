package widget

import "github.com/goliatone/go-formkit/pkg/schema"

// TypeCheckbox identifies change events whose value is the checked state
// rather than a text value.
const TypeCheckbox = "checkbox"

// Widget is any node of a host view tree. Leaves return nil children.
type Widget interface {
	Children() []Widget
}

// Container is a widget whose children can be replaced. WithChildren returns
// a copy; the receiver is left untouched.
type Container interface {
	Widget
	WithChildren(children []Widget) Widget
}

// Field is a widget that exposes a name matching a schema key.
type Field interface {
	Widget
	FieldName() string
}

// Bindable is a field that accepts injected props. Bind returns a bound copy
// and must keep the widget's children.
type Bindable interface {
	Field
	Bind(props Props) Widget
}

// Validated is a field that declares its own validators. A binder collects
// them on every traversal.
type Validated interface {
	Field
	Validation() []schema.Validator
}

// Props carries the state a binder injects into a bindable field.
type Props struct {
	Value    any
	Error    string
	OnChange func(ChangeEvent)
}

// Target mirrors the element that raised a change.
type Target struct {
	Name    string
	Type    string
	Value   any
	Checked bool
	Option  any
}

// ChangeEvent is emitted by widgets whenever their value changes.
type ChangeEvent struct {
	Target Target
}

// ResolvedValue returns the value a binder should store for the event:
// the checked state for checkboxes, the raw value otherwise.
func (e ChangeEvent) ResolvedValue() any {
	if e.Target.Type == TypeCheckbox {
		return e.Target.Checked
	}
	return e.Target.Value
}
