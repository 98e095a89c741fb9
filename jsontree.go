package toolwire

// MapStrings returns a copy of v with fn applied to every string leaf.
// Maps keep their keys, slices keep order and length, and numbers, booleans,
// nil and any other value pass through unchanged. v is never mutated.
func MapStrings(v any, fn func(string) string) any {
	switch x := v.(type) {
	case string:
		return fn(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = MapStrings(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = MapStrings(val, fn)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, val := range x {
			out[k] = fn(val)
		}
		return out
	case []string:
		out := make([]string, len(x))
		for i, val := range x {
			out[i] = fn(val)
		}
		return out
	default:
		return v
	}
}
