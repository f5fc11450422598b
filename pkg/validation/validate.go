package validation

import (
	"sort"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrorMap maps a field name to its validation message. An absent key or an
// empty message both mean the field is valid.
type ErrorMap map[string]string

// Get returns the message for name, or "" when the field is valid.
func (m ErrorMap) Get(name string) string {
	if m == nil {
		return ""
	}
	return m[name]
}

// HasErrors reports whether any entry carries a non-empty message.
func (m ErrorMap) HasErrors() bool {
	for _, message := range m {
		if message != "" {
			return true
		}
	}
	return false
}

// Fields returns the names with a non-empty message, sorted.
func (m ErrorMap) Fields() []string {
	var out []string
	for name, message := range m {
		if message != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy. A nil map clones to an empty map.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clear marks name as valid by storing an empty message. The key is kept so
// a merge still overrides stale messages for it.
func (m ErrorMap) Clear(name string) {
	if m == nil {
		return
	}
	m[name] = ""
}

// Merge returns a new map holding m overlaid with external. External entries
// win on key collisions, including empty ones.
func (m ErrorMap) Merge(external ErrorMap) ErrorMap {
	out := m.Clone()
	for k, v := range external {
		out[k] = v
	}
	return out
}

// Validate checks values against the validators registered per field name and
// returns the failing fields. For each field the first validator, in
// declaration order, whose predicate rejects the value supplies the message.
// Fields absent from values are validated against nil. Passing fields are
// omitted from the result.
//
// A predicate that panics aborts validation with a *ValidatorError; no
// partial result is returned.
func Validate(rules map[string][]schema.Validator, values map[string]any) (ErrorMap, error) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make(ErrorMap)
	for _, name := range names {
		message, err := firstFailure(name, rules[name], values[name])
		if err != nil {
			return nil, err
		}
		if message != "" {
			errs[name] = message
		}
	}
	return errs, nil
}

// ValidateSchema validates a schema against its own declared validators and
// current values.
func ValidateSchema(s schema.Schema) (ErrorMap, error) {
	return Validate(s.Rules(), s.Values())
}

func firstFailure(name string, validators []schema.Validator, value any) (message string, err error) {
	for idx, validator := range validators {
		ok, err := run(name, idx, validator, value)
		if err != nil {
			return "", err
		}
		if !ok {
			return validator.Message, nil
		}
	}
	return "", nil
}

func run(name string, idx int, validator schema.Validator, value any) (ok bool, err error) {
	if validator.Predicate == nil {
		return true, nil
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			ok = false
			err = &ValidatorError{Field: name, Index: idx, Panic: recovered}
		}
	}()
	return validator.Predicate(value), nil
}
