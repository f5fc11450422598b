package widgets

import (
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widget"
)

// Descriptor carries the presentation hints of one schema field.
type Descriptor struct {
	Field       schema.Field
	Label       string
	Placeholder string
	Widget      string
	Format      string
	Choices     []Choice
}

// DisplayLabel returns the label, falling back to the field name.
func (d Descriptor) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Field.Name
}

// Builder constructs a bindable widget for a descriptor.
type Builder func(desc Descriptor) widget.Bindable

// Describe returns bare descriptors for every field of s, in order.
func Describe(s schema.Schema) []Descriptor {
	fields := s.Fields()
	out := make([]Descriptor, len(fields))
	for idx, field := range fields {
		out[idx] = Descriptor{Field: field}
	}
	return out
}

// Build lays descs out as a Group of ValidatedField wrapped widgets, choosing
// each widget kind through reg. A nil registry uses NewRegistry.
func Build(title string, descs []Descriptor, reg *Registry) Group {
	if reg == nil {
		reg = NewRegistry()
	}
	items := make([]widget.Widget, 0, len(descs))
	for _, desc := range descs {
		kind, ok := reg.Resolve(desc)
		if !ok {
			kind = WidgetText
		}
		build, ok := reg.Builder(kind)
		if !ok {
			build = buildText
		}
		items = append(items, ValidatedField{Field: build(desc)})
	}
	return Group{Title: title, Items: items}
}

func buildText(desc Descriptor) widget.Bindable {
	return TextInput{Name: desc.Field.Name, Label: desc.DisplayLabel(), Placeholder: desc.Placeholder}
}

func buildPassword(desc Descriptor) widget.Bindable {
	return TextInput{Name: desc.Field.Name, Label: desc.DisplayLabel(), Placeholder: desc.Placeholder, Secret: true}
}

func buildCheckbox(desc Descriptor) widget.Bindable {
	return Checkbox{Name: desc.Field.Name, Label: desc.DisplayLabel()}
}

func buildSelect(desc Descriptor) widget.Bindable {
	return Select{Name: desc.Field.Name, Label: desc.DisplayLabel(), Choices: append([]Choice(nil), desc.Choices...)}
}

func buildSortable(desc Descriptor) widget.Bindable {
	return SortableList{Name: desc.Field.Name, Label: desc.DisplayLabel()}
}
