package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/internal/openapi/parser"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// FromOpenAPI turns the request body of one operation into a form. Each leaf
// property becomes a field; nested objects use dotted names. Constraints map
// onto rules:
//
//	required            → required (not for booleans, which default to false)
//	format: email       → email
//	minLength/maxLength → minLength/maxLength
//	pattern             → pattern
//	minimum/maximum     → min/max
//	enum                → oneOf, plus select choices
func FromOpenAPI(ctx context.Context, data []byte, operationID string, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	if operationID == "" {
		operationID = cfg.operation
	}
	if operationID == "" {
		return Document{}, ErrOperationRequired
	}

	op, err := parser.New(parser.Options{}).Operation(ctx, data, operationID)
	if err != nil {
		return Document{}, err
	}

	title := op.Summary
	if title == "" {
		title = op.ID
	}
	doc := Document{Title: title}
	fields := make([]schema.Field, 0, len(op.Properties))
	for _, prop := range op.Properties {
		validators, err := cfg.rules.ResolveAll(propertyRules(prop))
		if err != nil {
			return Document{}, fmt.Errorf("loader: property %q: %w", prop.Name, err)
		}
		field := schema.Field{Name: prop.Name, Value: propertyValue(prop), Validators: validators}
		fields = append(fields, field)

		label := prop.Label
		if label == "" {
			label = prop.Title
		}
		doc.Descriptors = append(doc.Descriptors, widgets.Descriptor{
			Field:       field,
			Label:       label,
			Placeholder: prop.Placeholder,
			Widget:      prop.Widget,
			Format:      prop.Format,
			Choices:     enumChoices(prop.Enum),
		})
	}
	doc.Schema = schema.New(fields...)
	cfg.logger.Debug("loader: built form from openapi operation",
		zap.String("operation", op.ID),
		zap.Int("fields", len(fields)),
	)
	return doc, nil
}

func propertyValue(prop parser.Property) any {
	if prop.Default != nil {
		return prop.Default
	}
	if prop.Type == "boolean" {
		return false
	}
	return nil
}

func propertyRules(prop parser.Property) []validation.Rule {
	var rules []validation.Rule
	if prop.Required && prop.Type != "boolean" {
		rules = append(rules, validation.Rule{Name: validation.RuleRequired})
	}
	if prop.Format == "email" {
		rules = append(rules, validation.Rule{Name: validation.RuleEmail})
	}
	if prop.MinLength != nil {
		rules = append(rules, validation.Rule{Name: validation.RuleMinLength, Args: []any{*prop.MinLength}})
	}
	if prop.MaxLength != nil {
		rules = append(rules, validation.Rule{Name: validation.RuleMaxLength, Args: []any{*prop.MaxLength}})
	}
	if prop.Pattern != "" {
		rules = append(rules, validation.Rule{Name: validation.RulePattern, Args: []any{prop.Pattern}})
	}
	if prop.Minimum != nil {
		rules = append(rules, validation.Rule{Name: validation.RuleMin, Args: []any{*prop.Minimum}})
	}
	if prop.Maximum != nil {
		rules = append(rules, validation.Rule{Name: validation.RuleMax, Args: []any{*prop.Maximum}})
	}
	if len(prop.Enum) > 0 {
		rules = append(rules, validation.Rule{Name: validation.RuleOneOf, Args: prop.Enum})
	}
	return rules
}

func enumChoices(values []any) []widgets.Choice {
	if len(values) == 0 {
		return nil
	}
	out := make([]widgets.Choice, 0, len(values))
	for _, value := range values {
		out = append(out, widgets.Choice{Value: fmt.Sprint(value)})
	}
	return out
}
