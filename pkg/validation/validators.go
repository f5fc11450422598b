package validation

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Required rejects nil, blank strings, false booleans and empty collections.
func Required(message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: isPresent}
}

// Email rejects strings that are not a bare RFC 5322 address with a dotted
// domain; display-name forms are rejected too. Empty values pass so
// the rule composes with Required.
func Email(message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		s := strings.TrimSpace(asString(value))
		if s == "" {
			return true
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s || addr.Name != "" {
			return false
		}
		domain := s[strings.LastIndex(s, "@")+1:]
		return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".") && !strings.HasPrefix(domain, ".")
	}}
}

// MinLength rejects strings (or collections) shorter than n.
func MinLength(n int, message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		size, ok := lengthOf(value)
		if !ok || size == 0 {
			return true
		}
		return size >= n
	}}
}

// MaxLength rejects strings (or collections) longer than n.
func MaxLength(n int, message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		size, ok := lengthOf(value)
		if !ok {
			return true
		}
		return size <= n
	}}
}

// Pattern rejects non-empty strings that don't match expr. It panics on an
// invalid expression, like regexp.MustCompile.
func Pattern(expr string, message string) schema.Validator {
	re := regexp.MustCompile(expr)
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		s := asString(value)
		if s == "" {
			return true
		}
		return re.MatchString(s)
	}}
}

// Min rejects numbers below limit. Non-numeric values that are empty pass.
func Min(limit float64, message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		n, ok, empty := asNumber(value)
		if empty {
			return true
		}
		return ok && n >= limit
	}}
}

// Max rejects numbers above limit.
func Max(limit float64, message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		n, ok, empty := asNumber(value)
		if empty {
			return true
		}
		return ok && n <= limit
	}}
}

// OneOf rejects values not present in allowed, comparing string forms.
func OneOf(allowed []any, message string) schema.Validator {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[fmt.Sprint(v)] = struct{}{}
	}
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		if value == nil || asString(value) == "" {
			return true
		}
		_, ok := set[fmt.Sprint(value)]
		return ok
	}}
}

// True rejects anything but boolean true, for consent checkboxes.
func True(message string) schema.Validator {
	return schema.Validator{Message: message, Predicate: func(value any) bool {
		b, ok := value.(bool)
		return ok && b
	}}
}

func isPresent(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case bool:
		return typed
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func asString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

func lengthOf(value any) (int, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, true
	case string:
		return utf8.RuneCountInString(typed), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

func asNumber(value any) (n float64, ok bool, empty bool) {
	switch typed := value.(type) {
	case nil:
		return 0, false, true
	case int:
		return float64(typed), true, false
	case int32:
		return float64(typed), true, false
	case int64:
		return float64(typed), true, false
	case float32:
		return float64(typed), true, false
	case float64:
		return typed, true, false
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false, true
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		return parsed, err == nil, false
	default:
		return 0, false, false
	}
}
