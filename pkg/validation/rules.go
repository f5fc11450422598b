package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Built-in rule identifiers understood by the default registry.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleOneOf     = "oneOf"
	RuleTrue      = "true"
)

// Rule is the declarative form of a validator, as found in schema documents.
type Rule struct {
	Name    string `yaml:"rule" json:"rule"`
	Args    []any  `yaml:"args,omitempty" json:"args,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Factory builds a validator from rule arguments. message is already
// defaulted when the rule omitted it.
type Factory func(args []any, message string) (schema.Validator, error)

type entry struct {
	factory        Factory
	defaultMessage func(args []any) string
}

// Registry resolves named rules into validators. Lookups are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry constructs a registry with the built-in rules registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds or replaces a rule factory. defaultMessage may be nil.
func (r *Registry) Register(name string, factory Factory, defaultMessage func(args []any) string) {
	if r == nil || factory == nil {
		return
	}
	key := normalizeRuleName(name)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]entry)
	}
	r.entries[key] = entry{factory: factory, defaultMessage: defaultMessage}
}

// Names lists the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve builds the validator for rule.
func (r *Registry) Resolve(rule Rule) (schema.Validator, error) {
	key := normalizeRuleName(rule.Name)
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return schema.Validator{}, fmt.Errorf("%w: %q", ErrUnknownRule, rule.Name)
	}
	message := strings.TrimSpace(rule.Message)
	if message == "" && e.defaultMessage != nil {
		message = e.defaultMessage(rule.Args)
	}
	validator, err := e.factory(rule.Args, message)
	if err != nil {
		return schema.Validator{}, fmt.Errorf("validation: rule %q: %w", rule.Name, err)
	}
	return validator, nil
}

// ResolveAll resolves rules in order, stopping at the first failure.
func (r *Registry) ResolveAll(rules []Rule) ([]schema.Validator, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	out := make([]schema.Validator, 0, len(rules))
	for _, rule := range rules {
		validator, err := r.Resolve(rule)
		if err != nil {
			return nil, err
		}
		out = append(out, validator)
	}
	return out, nil
}

func normalizeRuleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) registerBuiltins() {
	r.Register(RuleRequired, func(_ []any, message string) (schema.Validator, error) {
		return Required(message), nil
	}, staticMessage("This field is required"))

	r.Register(RuleEmail, func(_ []any, message string) (schema.Validator, error) {
		return Email(message), nil
	}, staticMessage("Please provide a valid email"))

	r.Register(RuleMinLength, func(args []any, message string) (schema.Validator, error) {
		n, err := intArg(args)
		if err != nil {
			return schema.Validator{}, err
		}
		return MinLength(n, message), nil
	}, func(args []any) string {
		return fmt.Sprintf("Must be at least %s characters", argString(args))
	})

	r.Register(RuleMaxLength, func(args []any, message string) (schema.Validator, error) {
		n, err := intArg(args)
		if err != nil {
			return schema.Validator{}, err
		}
		return MaxLength(n, message), nil
	}, func(args []any) string {
		return fmt.Sprintf("Must be at most %s characters", argString(args))
	})

	r.Register(RulePattern, func(args []any, message string) (schema.Validator, error) {
		if len(args) != 1 {
			return schema.Validator{}, fmt.Errorf("%w: pattern expects 1 argument", ErrInvalidRuleArgs)
		}
		expr, ok := args[0].(string)
		if !ok {
			return schema.Validator{}, fmt.Errorf("%w: pattern expects a string", ErrInvalidRuleArgs)
		}
		if _, err := regexp.Compile(expr); err != nil {
			return schema.Validator{}, fmt.Errorf("%w: %v", ErrInvalidRuleArgs, err)
		}
		return Pattern(expr, message), nil
	}, staticMessage("Invalid format"))

	r.Register(RuleMin, func(args []any, message string) (schema.Validator, error) {
		n, err := floatArg(args)
		if err != nil {
			return schema.Validator{}, err
		}
		return Min(n, message), nil
	}, func(args []any) string {
		return fmt.Sprintf("Must be at least %s", argString(args))
	})

	r.Register(RuleMax, func(args []any, message string) (schema.Validator, error) {
		n, err := floatArg(args)
		if err != nil {
			return schema.Validator{}, err
		}
		return Max(n, message), nil
	}, func(args []any) string {
		return fmt.Sprintf("Must be at most %s", argString(args))
	})

	r.Register(RuleOneOf, func(args []any, message string) (schema.Validator, error) {
		if len(args) == 0 {
			return schema.Validator{}, fmt.Errorf("%w: oneOf expects at least 1 argument", ErrInvalidRuleArgs)
		}
		return OneOf(args, message), nil
	}, staticMessage("Select one of the available options"))

	r.Register(RuleTrue, func(_ []any, message string) (schema.Validator, error) {
		return True(message), nil
	}, staticMessage("This field is required"))
}

func staticMessage(message string) func([]any) string {
	return func([]any) string { return message }
}

func argString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args[0])
}

func floatArg(args []any) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected 1 numeric argument, got %d", ErrInvalidRuleArgs, len(args))
	}
	switch v := args[0].(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidRuleArgs, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: unsupported numeric argument %T", ErrInvalidRuleArgs, v)
	}
}

func intArg(args []any) (int, error) {
	f, err := floatArg(args)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: expected a non-negative integer, got %v", ErrInvalidRuleArgs, f)
	}
	return int(f), nil
}
