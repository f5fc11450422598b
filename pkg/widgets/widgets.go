package widgets

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/reorder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widget"
)

// Group is a layout container. It is never bound itself.
type Group struct {
	Title string
	Items []widget.Widget
}

func (g Group) Children() []widget.Widget { return g.Items }

func (g Group) WithChildren(children []widget.Widget) widget.Widget {
	g.Items = children
	return g
}

// TextInput is a single line text field.
type TextInput struct {
	Name        string
	Label       string
	Placeholder string
	Secret      bool
	props       widget.Props
}

func (w TextInput) Children() []widget.Widget { return nil }
func (w TextInput) FieldName() string         { return w.Name }

// Bind returns a copy carrying props.
func (w TextInput) Bind(props widget.Props) widget.Widget {
	w.props = props
	return w
}

// Props returns the injected props.
func (w TextInput) Props() widget.Props { return w.props }

// Text returns the bound value as text.
func (w TextInput) Text() string {
	switch v := w.props.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Change reports new text to the binder.
func (w TextInput) Change(text string) {
	emit(w.props, widget.Target{Name: w.Name, Value: text})
}

// Checkbox is a boolean field.
type Checkbox struct {
	Name  string
	Label string
	props widget.Props
}

func (w Checkbox) Children() []widget.Widget { return nil }
func (w Checkbox) FieldName() string         { return w.Name }

// Bind returns a copy carrying props.
func (w Checkbox) Bind(props widget.Props) widget.Widget {
	w.props = props
	return w
}

// Props returns the injected props.
func (w Checkbox) Props() widget.Props { return w.props }

// Checked reports the bound state.
func (w Checkbox) Checked() bool {
	checked, _ := w.props.Value.(bool)
	return checked
}

// SetChecked reports a new state to the binder.
func (w Checkbox) SetChecked(checked bool) {
	emit(w.props, widget.Target{Name: w.Name, Type: widget.TypeCheckbox, Value: "on", Checked: checked})
}

// Choice is one entry of a Select.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Display returns the label, or the value when no label is set.
func (c Choice) Display() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

// Select picks one of a fixed set of choices. The chosen Choice travels as
// the change event option.
type Select struct {
	Name    string
	Label   string
	Choices []Choice
	props   widget.Props
}

func (w Select) Children() []widget.Widget { return nil }
func (w Select) FieldName() string         { return w.Name }

// Bind returns a copy carrying props.
func (w Select) Bind(props widget.Props) widget.Widget {
	w.props = props
	return w
}

// Props returns the injected props.
func (w Select) Props() widget.Props { return w.props }

// Selected returns the choice matching the bound value.
func (w Select) Selected() (Choice, bool) {
	value := fmt.Sprint(w.props.Value)
	for _, choice := range w.Choices {
		if choice.Value == value {
			return choice, true
		}
	}
	return Choice{}, false
}

// Choose reports the choice with the given value to the binder.
func (w Select) Choose(value string) error {
	for _, choice := range w.Choices {
		if choice.Value == value {
			emit(w.props, widget.Target{Name: w.Name, Value: choice.Value, Option: choice})
			return nil
		}
	}
	return fmt.Errorf("widgets: %q is not a choice of %s", value, w.Name)
}

// SortableList is a field whose value is an ordered reorder.Items sequence.
// Its change events come from a reorder engine wired to the bound handler.
type SortableList struct {
	Name             string
	Label            string
	HideOrderNumbers bool
	props            widget.Props
}

func (w SortableList) Children() []widget.Widget { return nil }
func (w SortableList) FieldName() string         { return w.Name }

// Bind returns a copy carrying props.
func (w SortableList) Bind(props widget.Props) widget.Widget {
	w.props = props
	return w
}

// Props returns the injected props.
func (w SortableList) Props() widget.Props { return w.props }

// Items returns a copy of the bound sequence.
func (w SortableList) Items() reorder.Items {
	switch v := w.props.Value.(type) {
	case reorder.Items:
		return v.Clone()
	case []reorder.Item:
		return reorder.Items(v).Clone()
	}
	return nil
}

// Engine creates a reorder engine over the bound items whose commits are
// reported to the binder.
func (w SortableList) Engine(opts ...reorder.Option) (*reorder.Engine, error) {
	if w.props.OnChange != nil {
		opts = append(opts, reorder.WithChangeCallback(w.props.OnChange))
	}
	return reorder.New(w.Name, w.Items(), opts...)
}

// ValidatedField wraps a bindable field with its own validators and exposes
// its error state. The wrapped field is reached through Inner rather than
// Children so it is bound exactly once.
type ValidatedField struct {
	Field widget.Bindable
	Rules []schema.Validator
	err   string
}

// Validated wraps field with rules.
func Validated(field widget.Bindable, rules ...schema.Validator) ValidatedField {
	return ValidatedField{Field: field, Rules: rules}
}

func (w ValidatedField) Children() []widget.Widget { return nil }

func (w ValidatedField) FieldName() string {
	if w.Field == nil {
		return ""
	}
	return w.Field.FieldName()
}

// Bind forwards props to the wrapped field and keeps the error message.
func (w ValidatedField) Bind(props widget.Props) widget.Widget {
	w.err = props.Error
	if w.Field == nil {
		return w
	}
	if bound, ok := w.Field.Bind(props).(widget.Bindable); ok {
		w.Field = bound
	}
	return w
}

// Validation returns the field's own validators.
func (w ValidatedField) Validation() []schema.Validator { return w.Rules }

// Inner returns the wrapped field.
func (w ValidatedField) Inner() widget.Bindable { return w.Field }

// ErrorText returns the bound error message.
func (w ValidatedField) ErrorText() string { return w.err }

// HasError reports whether the field currently shows an error.
func (w ValidatedField) HasError() bool { return w.err != "" }

func emit(props widget.Props, target widget.Target) {
	if props.OnChange == nil {
		return
	}
	props.OnChange(widget.ChangeEvent{Target: target})
}
