package loader

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/reorder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

var (
	// ErrInvalidDocument reports a structurally invalid schema document.
	ErrInvalidDocument = errors.New("loader: invalid document")
	// ErrOperationRequired is returned when an OpenAPI document is loaded
	// without choosing an operation.
	ErrOperationRequired = errors.New("loader: openapi operation id is required")
)

// Document is a loaded form: the schema a binder works on plus the
// presentation hints used to lay out widgets.
type Document struct {
	Title       string
	Schema      schema.Schema
	Descriptors []widgets.Descriptor
}

// Form lays the document out with reg (nil for the default registry).
func (d Document) Form(reg *widgets.Registry) widgets.Group {
	return widgets.Build(d.Title, d.Descriptors, reg)
}

type yamlDocument struct {
	Title  string      `yaml:"title"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name        string            `yaml:"name"`
	Label       string            `yaml:"label"`
	Placeholder string            `yaml:"placeholder"`
	Widget      string            `yaml:"widget"`
	Format      string            `yaml:"format"`
	Value       any               `yaml:"value"`
	Option      any               `yaml:"option"`
	Choices     []widgets.Choice  `yaml:"choices"`
	Items       []reorder.Item    `yaml:"items"`
	Rules       []validation.Rule `yaml:"rules"`
}

// FromYAML decodes a schema document:
//
//	title: Sign up
//	fields:
//	  - name: email
//	    value: ""
//	    rules:
//	      - rule: required
//	        message: Email is required
//	      - rule: email
//
// A field with items holds an ordered reorder.Items value.
func FromYAML(data []byte, opts ...Option) (Document, error) {
	cfg := newConfig(opts)

	var raw yamlDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("loader: decode yaml: %w", err)
	}

	doc := Document{Title: raw.Title}
	seen := map[string]bool{}
	var fields []schema.Field
	for idx, entry := range raw.Fields {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return Document{}, fmt.Errorf("%w: field %d has no name", ErrInvalidDocument, idx)
		}
		if seen[name] {
			return Document{}, fmt.Errorf("%w: duplicate field %q", ErrInvalidDocument, name)
		}
		seen[name] = true

		validators, err := cfg.rules.ResolveAll(entry.Rules)
		if err != nil {
			return Document{}, fmt.Errorf("loader: field %q: %w", name, err)
		}

		value := entry.Value
		if entry.Items != nil {
			if _, err := reorder.New(name, entry.Items); err != nil {
				return Document{}, fmt.Errorf("loader: field %q: %w", name, err)
			}
			value = reorder.Items(entry.Items)
		}

		field := schema.Field{Name: name, Value: value, Validators: validators, Option: entry.Option}
		fields = append(fields, field)
		doc.Descriptors = append(doc.Descriptors, widgets.Descriptor{
			Field:       field,
			Label:       entry.Label,
			Placeholder: entry.Placeholder,
			Widget:      entry.Widget,
			Format:      entry.Format,
			Choices:     entry.Choices,
		})
	}
	doc.Schema = schema.New(fields...)
	return doc, nil
}

// isOpenAPI reports whether data decodes to a mapping with an openapi key.
// JSON documents are valid YAML, so one probe covers both.
func isOpenAPI(data []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != ""
}
