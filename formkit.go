package formkit

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/renderers/term"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widget"
)

// Document aliases loader.Document so callers of the top-level package do
// not need to import the loader for the common path.
type Document = loader.Document

// ErrorMap aliases validation.ErrorMap.
type ErrorMap = validation.ErrorMap

// Load reads a form from a local path or an http(s) URL. OpenAPI documents
// need loader.WithOperation.
func Load(ctx context.Context, location string, options ...loader.Option) (Document, error) {
	return loader.LoadFile(ctx, location, options...)
}

// Validate checks values against the document rules. Fields missing from
// values keep their document default; names the document does not declare
// are rejected with ErrUnknownField.
func Validate(doc Document, values map[string]any) (ErrorMap, error) {
	s := doc.Schema.Clone()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !s.SetValue(name, values[name]) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	return validation.ValidateSchema(s)
}

// NewSession prepares an interactive terminal session over the document's
// auto-laid-out form.
func NewSession(doc Document, options ...tui.Option) (*tui.Session, error) {
	return tui.NewSession(doc.Schema, doc.Form(nil), options...)
}

// Render draws the document form as text. When b is non-nil the form is
// bound to it first so current values and errors show.
func Render(doc Document, b *binder.Binder, options ...term.RenderOption) string {
	var tree widget.Widget = doc.Form(nil)
	if b != nil {
		tree = b.Bind(tree)
	}
	return term.RenderTree(tree, options...)
}
