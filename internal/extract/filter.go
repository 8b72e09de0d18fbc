package extract

import "strings"

// IsUnresolved reports whether a string still carries automation template
// syntax that should have been substituted upstream (e.g. "{{ $json.x }}"
// or a leading "={{"). Such strings must never reach the user.
func IsUnresolved(s string) bool {
	if strings.HasPrefix(strings.TrimSpace(s), "={{") {
		return true
	}
	return strings.Contains(s, "{{") && strings.Contains(s, "}}")
}

// filterTemplates walks the payload and removes every string value that is
// an unresolved template: array elements are dropped, object keys omitted.
// The second return reports whether anything was removed, so callers can
// tell "filtered to nothing" apart from "was empty to begin with".
func filterTemplates(v any) (any, bool) {
	switch val := v.(type) {
	case string:
		if IsUnresolved(val) {
			return nil, true
		}
		return val, false

	case []any:
		out := make([]any, 0, len(val))
		dropped := false
		for _, el := range val {
			filtered, d := filterTemplates(el)
			dropped = dropped || d
			if d && filtered == nil {
				continue
			}
			out = append(out, filtered)
		}
		return out, dropped

	case map[string]any:
		out := make(map[string]any, len(val))
		dropped := false
		for k, el := range val {
			filtered, d := filterTemplates(el)
			dropped = dropped || d
			if d && filtered == nil {
				continue
			}
			out[k] = filtered
		}
		return out, dropped
	}

	return v, false
}
