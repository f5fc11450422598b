package validation

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestBuiltins(t *testing.T) {
	cases := []struct {
		name  string
		rule  Rule
		value any
		ok    bool
	}{
		{name: "required blank", rule: Rule{Name: "required"}, value: "  ", ok: false},
		{name: "required nil", rule: Rule{Name: "required"}, value: nil, ok: false},
		{name: "required false", rule: Rule{Name: "required"}, value: false, ok: false},
		{name: "required empty slice", rule: Rule{Name: "required"}, value: []any{}, ok: false},
		{name: "required text", rule: Rule{Name: "required"}, value: "x", ok: true},
		{name: "email valid", rule: Rule{Name: "email"}, value: "a@b.com", ok: true},
		{name: "email empty passes", rule: Rule{Name: "email"}, value: "", ok: true},
		{name: "email no domain dot", rule: Rule{Name: "email"}, value: "a@b", ok: false},
		{name: "email leading at", rule: Rule{Name: "email"}, value: "@b.com", ok: false},
		{name: "email two ats", rule: Rule{Name: "email"}, value: "a@b@c.com", ok: false},
		{name: "email inner space", rule: Rule{Name: "email"}, value: "a b@c.d", ok: false},
		{name: "email display name", rule: Rule{Name: "email"}, value: "Ada <a@b.com>", ok: false},
		{name: "email plus tag", rule: Rule{Name: "email"}, value: "ada+forms@b.co.uk", ok: true},
		{name: "minLength short", rule: Rule{Name: "minLength", Args: []any{3}}, value: "ab", ok: false},
		{name: "minLength empty passes", rule: Rule{Name: "minlength", Args: []any{3}}, value: "", ok: true},
		{name: "minLength runes", rule: Rule{Name: "minLength", Args: []any{2}}, value: "né", ok: true},
		{name: "maxLength long", rule: Rule{Name: "maxLength", Args: []any{"2"}}, value: "abc", ok: false},
		{name: "pattern match", rule: Rule{Name: "pattern", Args: []any{`^\d+$`}}, value: "123", ok: true},
		{name: "pattern miss", rule: Rule{Name: "pattern", Args: []any{`^\d+$`}}, value: "12a", ok: false},
		{name: "min number", rule: Rule{Name: "min", Args: []any{18}}, value: 17, ok: false},
		{name: "min numeric string", rule: Rule{Name: "min", Args: []any{18.0}}, value: "21", ok: true},
		{name: "min not numeric", rule: Rule{Name: "min", Args: []any{1}}, value: "abc", ok: false},
		{name: "max number", rule: Rule{Name: "max", Args: []any{10}}, value: 10, ok: true},
		{name: "oneOf hit", rule: Rule{Name: "oneOf", Args: []any{"a", "b"}}, value: "b", ok: true},
		{name: "oneOf miss", rule: Rule{Name: "oneOf", Args: []any{"a", "b"}}, value: "c", ok: false},
		{name: "true unchecked", rule: Rule{Name: "true"}, value: false, ok: false},
		{name: "true checked", rule: Rule{Name: "true"}, value: true, ok: true},
	}

	reg := NewRegistry()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validator, err := reg.Resolve(tc.rule)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := validator.Predicate(tc.value); got != tc.ok {
				t.Fatalf("predicate(%v) = %v, want %v", tc.value, got, tc.ok)
			}
			if validator.Message == "" {
				t.Fatalf("expected default message")
			}
		})
	}
}

func TestRegistry_CustomMessageAndErrors(t *testing.T) {
	reg := NewRegistry()

	validator, err := reg.Resolve(Rule{Name: "Required", Message: " Name please "})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if validator.Message != "Name please" {
		t.Fatalf("expected trimmed custom message, got %q", validator.Message)
	}

	if _, err := reg.Resolve(Rule{Name: "nope"}); !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
	if _, err := reg.Resolve(Rule{Name: "minLength"}); !errors.Is(err, ErrInvalidRuleArgs) {
		t.Fatalf("expected ErrInvalidRuleArgs for missing arg, got %v", err)
	}
	if _, err := reg.Resolve(Rule{Name: "pattern", Args: []any{"("}}); !errors.Is(err, ErrInvalidRuleArgs) {
		t.Fatalf("expected ErrInvalidRuleArgs for bad regexp, got %v", err)
	}

	reg.Register("even", func(_ []any, message string) (schema.Validator, error) {
		return schema.Validator{Message: message, Predicate: func(v any) bool {
			n, _ := v.(int)
			return n%2 == 0
		}}, nil
	}, nil)
	validators, err := reg.ResolveAll([]Rule{{Name: "required"}, {Name: "even", Message: "odd"}})
	if err != nil {
		t.Fatalf("resolve all: %v", err)
	}
	if len(validators) != 2 || validators[1].Predicate(3) {
		t.Fatalf("custom rule not applied")
	}
}
