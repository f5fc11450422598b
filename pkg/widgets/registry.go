package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/reorder"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetPassword = "password"
	WidgetCheckbox = "checkbox"
	WidgetSelect   = "select"
	WidgetSortable = "sortable"
)

// Matcher decides whether a widget kind should handle the supplied field.
type Matcher func(desc Descriptor) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget kinds for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. Fields nothing matches fall back to WidgetText in Build.
type Registry struct {
	mu       sync.RWMutex
	rules    []rule
	builders map[string]Builder
}

// NewRegistry constructs a registry with the built-in matchers and builders
// registered.
func NewRegistry() *Registry {
	reg := &Registry{builders: map[string]Builder{}}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Define sets the builder used for a widget kind.
func (r *Registry) Define(name string, build Builder) {
	if r == nil || build == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.builders == nil {
		r.builders = map[string]Builder{}
	}
	r.builders[trimmed] = build
}

// Builder returns the builder for a widget kind.
func (r *Registry) Builder(name string) (Builder, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	build, ok := r.builders[name]
	return build, ok
}

// Resolve returns the widget kind for a field. An explicit Widget hint is
// honoured before matcher evaluation.
func (r *Registry) Resolve(desc Descriptor) (string, bool) {
	if explicit := strings.TrimSpace(desc.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(desc) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate fills the Widget hint of every descriptor the registry resolves,
// preserving explicit hints.
func (r *Registry) Decorate(descs []Descriptor) []Descriptor {
	if len(descs) == 0 {
		return descs
	}
	decorated := make([]Descriptor, len(descs))
	for idx, desc := range descs {
		if desc.Widget == "" {
			if kind, ok := r.Resolve(desc); ok {
				desc.Widget = kind
			}
		}
		decorated[idx] = desc
	}
	return decorated
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSortable, 95, func(desc Descriptor) bool {
		switch desc.Field.Value.(type) {
		case reorder.Items, []reorder.Item:
			return true
		}
		return false
	})

	r.Register(WidgetCheckbox, 90, func(desc Descriptor) bool {
		_, ok := desc.Field.Value.(bool)
		return ok
	})

	r.Register(WidgetSelect, 70, func(desc Descriptor) bool {
		return len(desc.Choices) > 0
	})

	r.Register(WidgetPassword, 60, func(desc Descriptor) bool {
		format := strings.TrimSpace(strings.ToLower(desc.Format))
		return format == "password"
	})

	r.Define(WidgetText, buildText)
	r.Define(WidgetPassword, buildPassword)
	r.Define(WidgetCheckbox, buildCheckbox)
	r.Define(WidgetSelect, buildSelect)
	r.Define(WidgetSortable, buildSortable)
}
