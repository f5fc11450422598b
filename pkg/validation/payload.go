package validation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// MapErrorPayload normalises a server error payload (go-errors style JSON
// pointers, bracketed indices, wrapper segments such as "body" or "data")
// onto schema field names. Each matched field keeps its first message;
// unmatched paths and form-level keys are returned as form messages so
// nothing is lost. The result is suitable for Binder external errors.
func MapErrorPayload(s schema.Schema, payload map[string][]string) (ErrorMap, []string) {
	fields := make(ErrorMap)
	if len(payload) == 0 {
		return fields, nil
	}

	// Deterministic order so the "first message wins" rule is stable.
	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var form []string
	for _, rawPath := range paths {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}

		mapped, ok := fieldForPath(rawPath, s)
		if !ok {
			form = append(form, messages...)
			continue
		}
		if fields[mapped] == "" {
			fields[mapped] = messages[0]
		}
	}

	return fields, normalizeMessages(form)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// fieldForPath resolves a payload key to the deepest schema field it names.
// Leading wrapper segments and array indices are tried with and without, so
// "/body/tags/2" and "tags[2]" both land on "tags". ok is false for
// form-level keys and paths that name no field.
func fieldForPath(raw string, s schema.Schema) (name string, ok bool) {
	key := strings.TrimSpace(raw)
	if _, form := formLevelKeys[strings.ToLower(key)]; form {
		return "", false
	}

	segments := splitPath(key)
	unwrapped := segments
	for len(unwrapped) > 0 {
		if _, wrapper := wrapperSegments[strings.ToLower(unwrapped[0])]; !wrapper {
			break
		}
		unwrapped = unwrapped[1:]
	}

	depth := 0
	for _, candidate := range [][]string{segments, unwrapped, withoutIndices(segments), withoutIndices(unwrapped)} {
		// longest known prefix of each candidate; the deepest across candidates wins
		for end := len(candidate); end > depth; end-- {
			if joined := strings.Join(candidate[:end], "."); s.Has(joined) {
				name, depth = joined, end
				break
			}
		}
	}
	return name, name != ""
}

// splitPath breaks JSON pointers, dotted paths and bracketed indices into
// segments, unescaping ~1 and ~0.
func splitPath(path string) []string {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		switch r {
		case '#', '$', '/', '.', '[', ']':
			return true
		}
		return false
	})
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		out = append(out, strings.ReplaceAll(part, "~0", "~"))
	}
	return out
}

func withoutIndices(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err != nil {
			out = append(out, segment)
		}
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body": {}, "request": {}, "payload": {}, "data": {}, "attributes": {}, "properties": {},
}

var formLevelKeys = map[string]struct{}{
	"": {}, ".": {}, "/": {}, "#": {}, "$": {},
	"form": {}, "base": {}, "__all__": {}, "non_field_errors": {}, "non-field-errors": {},
}
