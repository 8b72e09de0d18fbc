package extract

import "strings"

// containerKeys are probed, in order, when the structured fields are nested
// one level down instead of sitting at the top of the payload.
var containerKeys = []string{"output", "result", "data", "response"}

// Structured extracts the multi-field improvement shape (title, body, SEO
// variants, keywords, hashtags). Payloads that do not carry the structured
// keys degrade to plain-text extraction.
func Structured(payload any) Result {
	value := normalize(payload)
	filtered, dropped := filterTemplates(value)

	if f, ok := structuredFields(filtered); ok {
		return Result{Kind: KindFields, Fields: f}
	}

	if text, ok := extractText(filtered, maxRedecode); ok {
		return textResult(strings.TrimSpace(text))
	}
	if dropped {
		return errorResult(ErrUnresolvedVariables)
	}
	return textResult("")
}

func structuredFields(v any) (*Fields, bool) {
	obj, ok := asObject(v)
	if !ok {
		return nil, false
	}
	obj = unwrapObjectObject(obj)

	if f, ok := fieldsFromObject(obj); ok {
		return f, true
	}
	for _, key := range containerKeys {
		if nested, ok := asObject(obj[key]); ok {
			if f, ok := fieldsFromObject(nested); ok {
				return f, true
			}
		}
	}
	return nil, false
}

func fieldsFromObject(obj map[string]any) (*Fields, bool) {
	f := &Fields{
		MainTitle:             stringField(obj, "main_title", "title"),
		Body:                  stringField(obj, "body", "content", "main_content"),
		SEOTitles:             stringList(obj["seo_titles"]),
		Keywords:              stringList(obj["keywords"]),
		Hashtags:              stringList(obj["hashtags"]),
		YoutubeThumbnailTitle: stringField(obj, "youtube_thumbnail_title"),
	}

	// At least the title or body must be present for this to count as the
	// structured shape; anything less is handled by text extraction.
	if f.MainTitle == "" && f.Body == "" {
		return nil, false
	}
	return f, true
}

func asObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case []any:
		if len(val) > 0 {
			return asObject(val[0])
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := nonEmptyString(obj[k]); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// stringList coerces either a JSON array of strings or a single delimited
// string into a cleaned slice.
func stringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, el := range val {
			if s, ok := nonEmptyString(el); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		return SplitKeywords(val)
	}
	return nil
}
