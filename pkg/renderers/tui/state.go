package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/reorder"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// State holds submitted values as a nested document. Binder values are keyed
// by dotted names ("address.city"); State expands them so the output matches
// the object shape of the source schema.
type State struct {
	values map[string]any
}

// NewState expands flat dotted values into nested maps.
func NewState(flat map[string]any) (*State, error) {
	s := &State{values: make(map[string]any, len(flat))}
	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.SetValue(name, outputValue(flat[name])); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// GetValue resolves a dotted path into the values map.
func (s *State) GetValue(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return getPath(s.values, path)
}

// SetValue writes a value using a dotted path, creating intermediate maps/slices
// as needed.
func (s *State) SetValue(path string, value any) error {
	if s == nil {
		return fmt.Errorf("tui: state is nil")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return setPath(s.values, path, value)
}

// outputValue turns widget values into plain data.
func outputValue(value any) any {
	switch typed := value.(type) {
	case reorder.Items:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = map[string]any{"value": item.Value, "text": item.Text, "active": item.Active}
		}
		return out
	case []reorder.Item:
		return outputValue(reorder.Items(typed))
	default:
		return schema.CloneValue(value)
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path. Numeric segments index into slices,
// which grow as needed.
func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("tui: root map is nil")
	}
	if path == "" {
		return fmt.Errorf("tui: empty path")
	}
	_, err := setInto(root, strings.Split(path, "."), value, path)
	return err
}

func setInto(node any, segments []string, value any, path string) (any, error) {
	segment := segments[0]
	last := len(segments) == 1

	switch typed := node.(type) {
	case map[string]any:
		if last {
			typed[segment] = value
			return typed, nil
		}
		child, err := setInto(childFor(typed[segment], segments[1]), segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		typed[segment] = child
		return typed, nil

	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("tui: expected index at %q in path %q", segment, path)
		}
		if len(typed) <= idx {
			typed = append(typed, make([]any, idx+1-len(typed))...)
		}
		if last {
			typed[idx] = value
			return typed, nil
		}
		child, err := setInto(childFor(typed[idx], segments[1]), segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		typed[idx] = child
		return typed, nil

	default:
		return nil, fmt.Errorf("tui: %q in path %q is not a container", segment, path)
	}
}

// childFor returns the existing container, or a new one shaped for the next
// segment.
func childFor(existing any, next string) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	case nil:
		if _, err := strconv.Atoi(next); err == nil {
			return []any{}
		}
		return map[string]any{}
	default:
		return existing
	}
}
