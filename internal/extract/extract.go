package extract

import (
	"encoding/json"
	"sort"
	"strings"
)

// rule is one step of the field-priority chain: the first rule whose keys
// yield a non-empty string wins. Keeping the policy as data (instead of a
// ladder of if/else on the payload) keeps each rule testable on its own.
type rule struct {
	name string
	keys []string
}

var translationRules = []rule{
	{name: "traduction", keys: []string{"Traduction"}},
	{name: "translation", keys: []string{"translation", "translated_text", "text"}},
	{name: "content", keys: []string{"body", "content", "main_content"}},
	{name: "output", keys: []string{"output"}},
}

// maxRedecode bounds how many times a candidate that is itself JSON-encoded
// gets re-parsed and re-extracted.
const maxRedecode = 3

// Translation extracts the best human-readable string from an upstream
// payload of unknown shape. It never panics and never returns a string
// containing template syntax.
func Translation(payload any) Result {
	value := normalize(payload)

	filtered, dropped := filterTemplates(value)

	text, found := extractText(filtered, maxRedecode)
	if found {
		return textResult(strings.TrimSpace(text))
	}
	if dropped {
		// Everything usable was an unresolved template.
		return errorResult(ErrUnresolvedVariables)
	}
	return textResult("")
}

// normalize turns a payload into a walkable value: JSON-encoded strings are
// decoded, everything else passes through. Decode failures keep the raw
// string; rendering something always beats failing.
func normalize(payload any) any {
	s, ok := payload.(string)
	if !ok {
		return payload
	}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return s
}

// extractText runs the priority rules against a filtered payload.
func extractText(v any, redecodes int) (string, bool) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return "", false
		}
		return redecode(val, redecodes)

	case []any:
		// n8n frequently wraps the real answer in a one-element array.
		for _, el := range val {
			if text, ok := extractText(el, redecodes); ok {
				return text, ok
			}
		}
		return "", false

	case map[string]any:
		obj := unwrapObjectObject(val)

		for _, r := range translationRules {
			for _, key := range r.keys {
				if s, ok := nonEmptyString(obj[key]); ok {
					return redecode(s, redecodes)
				}
			}
		}
		return fallbackScan(obj, redecodes)
	}

	return "", false
}

// unwrapObjectObject handles a known upstream artifact where the whole
// answer arrives keyed under the literal string "object Object". This is a
// defensive check for one specific bug, not a general rule.
func unwrapObjectObject(obj map[string]any) map[string]any {
	if inner, ok := obj["object Object"].(map[string]any); ok && len(obj) == 1 {
		return inner
	}
	return obj
}

// redecode re-enters extraction when the winning value is itself a
// JSON-encoded object or array. On parse failure the raw string is used.
func redecode(s string, redecodes int) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if redecodes > 0 && (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			if text, ok := extractText(decoded, redecodes-1); ok {
				return text, true
			}
			return "", false
		}
	}
	return s, s != ""
}

// fallbackScan looks for the first string-typed value: first across the
// object's own keys, then one level down into nested objects. Keys are
// visited in sorted order so the pick is deterministic.
func fallbackScan(obj map[string]any, redecodes int) (string, bool) {
	keys := sortedKeys(obj)

	for _, k := range keys {
		if s, ok := nonEmptyString(obj[k]); ok {
			return redecode(s, redecodes)
		}
	}
	for _, k := range keys {
		nested, ok := obj[k].(map[string]any)
		if !ok {
			continue
		}
		for _, nk := range sortedKeys(nested) {
			if s, ok := nonEmptyString(nested[nk]); ok {
				return redecode(s, redecodes)
			}
		}
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
