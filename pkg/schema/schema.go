package schema

import (
	"reflect"
	"strings"
)

// Validator pairs a predicate with the message surfaced when the predicate
// rejects a value. Predicates must be pure.
type Validator struct {
	Predicate func(value any) bool
	Message   string
}

// Field describes a single named entry of a Schema: its current value, the
// ordered validators guarding it, and an optional companion value (for
// example the selected option of a select widget).
type Field struct {
	Name       string
	Value      any
	Validators []Validator
	Option     any
}

// Schema is an ordered mapping from field name to Field. The zero value is an
// empty schema ready for use.
type Schema struct {
	order  []string
	fields map[string]Field
}

// New builds a schema from fields, keeping their order. Blank names are
// skipped; duplicate names replace the earlier entry in place.
func New(fields ...Field) Schema {
	var s Schema
	for _, field := range fields {
		s.Set(field)
	}
	return s
}

// Len reports the number of fields.
func (s Schema) Len() int {
	return len(s.order)
}

// Names returns the field names in insertion order.
func (s Schema) Names() []string {
	if len(s.order) == 0 {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Has reports whether name is a key of the schema.
func (s Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Get returns a copy of the named field.
func (s Schema) Get(name string) (Field, bool) {
	field, ok := s.fields[name]
	if !ok {
		return Field{}, false
	}
	return cloneField(field), true
}

// Fields returns copies of every field in order.
func (s Schema) Fields() []Field {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, cloneField(s.fields[name]))
	}
	return out
}

// Set adds or replaces a field. Replacing keeps the original position.
func (s *Schema) Set(field Field) {
	name := strings.TrimSpace(field.Name)
	if name == "" {
		return
	}
	field.Name = name
	if s.fields == nil {
		s.fields = make(map[string]Field)
	}
	if _, exists := s.fields[name]; !exists {
		s.order = append(s.order, name)
	}
	s.fields[name] = field
}

// SetValue updates the value of an existing field. It reports false when the
// name is unknown.
func (s *Schema) SetValue(name string, value any) bool {
	field, ok := s.fields[name]
	if !ok {
		return false
	}
	field.Value = value
	s.fields[name] = field
	return true
}

// SetOption updates the option of an existing field.
func (s *Schema) SetOption(name string, option any) bool {
	field, ok := s.fields[name]
	if !ok {
		return false
	}
	field.Option = option
	s.fields[name] = field
	return true
}

// Values flattens the schema into a name → value map.
func (s Schema) Values() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, name := range s.order {
		out[name] = deepCopy(s.fields[name].Value)
	}
	return out
}

// Rules returns the validators of every field that declares at least one.
func (s Schema) Rules() map[string][]Validator {
	out := make(map[string][]Validator)
	for _, name := range s.order {
		validators := s.fields[name].Validators
		if len(validators) == 0 {
			continue
		}
		out[name] = append([]Validator(nil), validators...)
	}
	return out
}

// Clone returns a deep copy that shares nothing mutable with s.
func (s Schema) Clone() Schema {
	out := Schema{}
	if len(s.order) == 0 {
		return out
	}
	out.order = append([]string(nil), s.order...)
	out.fields = make(map[string]Field, len(s.fields))
	for name, field := range s.fields {
		out.fields[name] = cloneField(field)
	}
	return out
}

// Equal compares names, order, values and options structurally. Validators
// are compared by count, message and predicate code pointer, which is the
// closest approximation of function identity available.
func (s Schema) Equal(other Schema) bool {
	if len(s.order) != len(other.order) {
		return false
	}
	for idx, name := range s.order {
		if other.order[idx] != name {
			return false
		}
		a, b := s.fields[name], other.fields[name]
		if !reflect.DeepEqual(a.Value, b.Value) || !reflect.DeepEqual(a.Option, b.Option) {
			return false
		}
		if !sameValidators(a.Validators, b.Validators) {
			return false
		}
	}
	return true
}

func sameValidators(a, b []Validator) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx].Message != b[idx].Message {
			return false
		}
		if funcPointer(a[idx].Predicate) != funcPointer(b[idx].Predicate) {
			return false
		}
	}
	return true
}

func funcPointer(fn func(any) bool) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

func cloneField(field Field) Field {
	field.Value = deepCopy(field.Value)
	field.Option = deepCopy(field.Option)
	if field.Validators != nil {
		field.Validators = append([]Validator(nil), field.Validators...)
	}
	return field
}
