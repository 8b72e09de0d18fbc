package models

// TranslationResult describes the outcome of translating an image prompt
// before generation. Produced once per generation request and discarded.
type TranslationResult struct {
	TranslatedPrompt string `json:"translated_prompt"`
	OriginalPrompt   string `json:"original_prompt"`
	DetectedLanguage string `json:"detected_language"`
	WasTranslated    bool   `json:"was_translated"`
	Error            string `json:"error,omitempty"`
}
