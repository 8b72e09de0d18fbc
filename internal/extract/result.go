// Package extract turns arbitrary webhook payloads into something the
// dashboard can show. Upstream automations answer with unstable shapes
// (bare strings, JSON objects, JSON-encoded strings, single-element
// arrays), sometimes with unresolved template expressions still inside;
// everything here degrades instead of failing so the UI always renders.
package extract

// User-facing messages, in French like the rest of the dashboard.
const (
	ErrUnresolvedVariables = "Variables non résolues dans la réponse du webhook"
	NoTranslationFallback  = "Aucune traduction disponible dans la réponse du webhook."
)

// Kind discriminates the Result variants.
type Kind int

const (
	// KindText is a plain human-readable string.
	KindText Kind = iota
	// KindFields is a structured multi-field improvement result.
	KindFields
	// KindError means extraction failed in a way worth telling the user
	// about (today: every candidate was an unresolved template).
	KindError
)

// Fields is the structured shape produced by the text-improvement workflow.
type Fields struct {
	MainTitle             string   `json:"main_title"`
	Body                  string   `json:"body"`
	SEOTitles             []string `json:"seo_titles"`
	Keywords              []string `json:"keywords"`
	Hashtags              []string `json:"hashtags"`
	YoutubeThumbnailTitle string   `json:"youtube_thumbnail_title"`
}

// Result is the extractor's output: exactly one variant is meaningful,
// selected by Kind.
type Result struct {
	Kind   Kind    `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Fields *Fields `json:"fields,omitempty"`
	Err    string  `json:"error,omitempty"`
}

func textResult(s string) Result {
	return Result{Kind: KindText, Text: s}
}

func errorResult(msg string) Result {
	return Result{Kind: KindError, Err: msg}
}

// Display returns what the UI should render for this result. Errors and
// empty extractions both fall back to the literal "no translation" line;
// the page must always show something.
func (r Result) Display() string {
	switch r.Kind {
	case KindText:
		if r.Text != "" {
			return r.Text
		}
	case KindFields:
		if r.Fields != nil && r.Fields.Body != "" {
			return r.Fields.Body
		}
	}
	return NoTranslationFallback
}
