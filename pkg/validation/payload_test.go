package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestMapErrorPayload(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "email"},
		schema.Field{Name: "address.city"},
		schema.Field{Name: "tags"},
	)

	payload := map[string][]string{
		"/body/email":            {" already taken ", "already taken", "second"},
		"#/data/address/city":    {"unknown city"},
		"tags[2]":                {"too long"},
		"non_field_errors":       {"try again later"},
		"/unknown/path":          {"lost field"},
		"email.confirmation.foo": {"   "},
	}

	fields, form := validation.MapErrorPayload(s, payload)

	wantFields := validation.ErrorMap{
		"email":        "already taken",
		"address.city": "unknown city",
		"tags":         "too long",
	}
	if diff := cmp.Diff(wantFields, fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"lost field", "try again later"}
	if diff := cmp.Diff(wantForm, form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	fields, form := validation.MapErrorPayload(schema.New(), nil)
	if len(fields) != 0 || form != nil {
		t.Fatalf("expected empty mapping, got %v %v", fields, form)
	}
}

func TestMapErrorPayload_DeepestFieldWins(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "address"},
		schema.Field{Name: "address.city"},
		schema.Field{Name: "items.name"},
	)

	payload := map[string][]string{
		"/address/city":            {"unknown city"},
		"address[0]":               {"bad address"},
		"$.payload.items[3].name":  {"name missing"},
		"/properties/items/3/size": {"size missing"},
		"__all__":                  {"conflict"},
	}

	fields, form := validation.MapErrorPayload(s, payload)

	wantFields := validation.ErrorMap{
		"address":      "bad address",
		"address.city": "unknown city",
		"items.name":   "name missing",
	}
	if diff := cmp.Diff(wantFields, fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"size missing", "conflict"}, form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
