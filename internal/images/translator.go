// Package images drives the image-generation feature: translate the prompt
// to English when needed, call the generation webhook, dig the image URL
// out of the response, and optionally mirror the image into R2.
package images

import (
	"context"
	"encoding/json"

	"github.com/sahafa/newsroom/internal/extract"
	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
	"github.com/sahafa/newsroom/internal/textdir"
	"github.com/sahafa/newsroom/internal/webhook"
)

// PromptTranslator turns French/Arabic prompts into English ones through
// the translation webhook. The generation model expects English; a failed
// translation falls back to the original prompt rather than blocking.
type PromptTranslator struct {
	client *webhook.Client
	url    string
}

func NewPromptTranslator(client *webhook.Client, url string) *PromptTranslator {
	return &PromptTranslator{client: client, url: url}
}

// Translate returns the prompt to send to the generator, with a record of
// what happened for the UI. Never returns an error: the worst case is the
// untranslated prompt.
func (t *PromptTranslator) Translate(ctx context.Context, prompt string) models.TranslationResult {
	lang := textdir.DetectLanguage(prompt)
	result := models.TranslationResult{
		OriginalPrompt:   prompt,
		TranslatedPrompt: prompt,
		DetectedLanguage: lang,
	}

	if t.url == "" {
		return result
	}

	payload, _ := json.Marshal(map[string]string{
		"text":     prompt,
		"langPair": lang + "-en",
	})

	env := t.client.Forward(ctx, t.url, payload, "application/json")
	if !env.OK {
		result.Error = "translation webhook unavailable"
		logger.Get().Warn().
			Int("status", env.Status).
			Str("error", env.Error).
			Msg("prompt translation failed, using original prompt")
		return result
	}

	extracted := extract.Translation(envelopePayload(env))
	if extracted.Kind == extract.KindText && extracted.Text != "" {
		result.TranslatedPrompt = extracted.Text
		result.WasTranslated = true
		return result
	}

	result.Error = extracted.Err
	return result
}

// envelopePayload picks whichever variant the envelope carries for the
// extractor.
func envelopePayload(env models.Envelope) any {
	if env.Data != nil {
		return env.Data
	}
	return env.Body
}
