package schema

// Cloner lets values stored in a schema provide their own deep copy. Types
// outside the map/slice primitives handled here implement it to avoid sharing
// backing arrays between the binder and widgets.
type Cloner interface {
	CloneValue() any
}

// CloneValue deep-copies maps, slices and Cloner implementations; other values
// are returned as is.
func CloneValue(value any) any {
	return deepCopy(value)
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case Cloner:
		return typed.CloneValue()
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	case map[string]string:
		clone := make(map[string]string, len(typed))
		for k, v := range typed {
			clone[k] = v
		}
		return clone
	default:
		return typed
	}
}
