package parser

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extensionNamespace = "x-formkit"
	extensionLabel     = "label"
	extensionWidget    = "widget"
	extensionOrder     = "order"
	extensionHolder    = "placeholder"
)

// Property is one leaf of a request body. Nested object properties are
// flattened with dotted names ("address.city").
type Property struct {
	Name        string
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Required    bool
	Enum        []any
	MinLength   *int
	MaxLength   *int
	Minimum     *float64
	Maximum     *float64
	Pattern     string
	Label       string
	Widget      string
	Placeholder string
}

// flatten walks object properties depth first. Properties are ordered by an
// explicit x-formkit order when present, then by name. seen guards against
// recursive references.
func flatten(prefix string, src *openapi3.Schema, seen map[*openapi3.Schema]bool) []Property {
	if src == nil {
		return nil
	}
	if seen == nil {
		seen = map[*openapi3.Schema]bool{}
	}
	if seen[src] {
		return nil
	}
	seen[src] = true
	defer delete(seen, src)

	properties, required := mergedProperties(src)

	var out []Property
	for _, name := range orderedNames(properties) {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		value := ref.Value
		full := name
		if prefix != "" {
			full = prefix + "." + name
		}
		if firstSchemaType(value.Type) == "object" && len(value.Properties) > 0 {
			out = append(out, flatten(full, value, seen)...)
			continue
		}
		out = append(out, convertProperty(full, value, required[name]))
	}
	return out
}

// mergedProperties folds allOf members into the schema's own properties.
func mergedProperties(src *openapi3.Schema) (openapi3.Schemas, map[string]bool) {
	properties := openapi3.Schemas{}
	required := map[string]bool{}

	var merge func(s *openapi3.Schema)
	merge = func(s *openapi3.Schema) {
		for _, member := range s.AllOf {
			if member != nil && member.Value != nil {
				merge(member.Value)
			}
		}
		for name, ref := range s.Properties {
			properties[name] = ref
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	merge(src)
	return properties, required
}

func orderedNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := explicitOrder(properties[names[i]])
		oj, jok := explicitOrder(properties[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

func explicitOrder(ref *openapi3.SchemaRef) (int, bool) {
	if ref == nil || ref.Value == nil {
		return 0, false
	}
	switch v := extension(ref.Value.Extensions, extensionOrder).(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func convertProperty(name string, src *openapi3.Schema, required bool) Property {
	prop := Property{
		Name:        name,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Required:    required,
		Pattern:     src.Pattern,
	}
	if len(src.Enum) > 0 {
		prop.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		value := *src.Min
		prop.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		prop.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		prop.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		prop.MaxLength = &value
	}
	prop.Label, _ = extension(src.Extensions, extensionLabel).(string)
	prop.Widget, _ = extension(src.Extensions, extensionWidget).(string)
	prop.Placeholder, _ = extension(src.Extensions, extensionHolder).(string)
	return prop
}

// extension reads x-formkit-<key> or the key nested under x-formkit.
func extension(raw map[string]any, key string) any {
	if len(raw) == 0 {
		return nil
	}
	if value, ok := raw[extensionNamespace+"-"+key]; ok {
		return value
	}
	if nested, ok := raw[extensionNamespace].(map[string]any); ok {
		return nested[key]
	}
	return nil
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
