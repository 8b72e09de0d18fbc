package images

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
	"github.com/sahafa/newsroom/internal/webhook"
)

// urlKeys are probed in order against the generation response, at the top
// level and one level down. The workflow has emitted every one of these at
// some point.
var urlKeys = []string{"imageUrl", "image_url", "url", "output", "result"}

// Generator owns the image-generation flow.
type Generator struct {
	client     *webhook.Client
	translator *PromptTranslator
	mirror     *Mirror // nil when R2 is not configured
	url        string
}

func NewGenerator(client *webhook.Client, translator *PromptTranslator, mirror *Mirror, url string) *Generator {
	return &Generator{
		client:     client,
		translator: translator,
		mirror:     mirror,
		url:        url,
	}
}

// Result is what the dashboard renders after a generation request.
type Result struct {
	ImageURL    string                   `json:"image_url"`
	Mirrored    bool                     `json:"mirrored"`
	Translation models.TranslationResult `json:"translation"`
}

// Generate translates the prompt, calls the webhook and resolves the image
// URL. Mirroring failures degrade to the upstream URL.
func (g *Generator) Generate(ctx context.Context, prompt string) (Result, error) {
	translation := g.translator.Translate(ctx, prompt)

	payload, _ := json.Marshal(map[string]string{"prompt": translation.TranslatedPrompt})
	env := g.client.Forward(ctx, g.url, payload, "application/json")
	if !env.OK {
		return Result{Translation: translation}, fmt.Errorf("image webhook failed with status %d: %s", env.Status, env.Error)
	}

	imageURL, ok := ExtractImageURL(envelopePayload(env))
	if !ok {
		return Result{Translation: translation}, fmt.Errorf("no image URL in webhook response")
	}

	result := Result{ImageURL: imageURL, Translation: translation}

	if g.mirror != nil && strings.HasPrefix(imageURL, "http") {
		mirrored, err := g.mirror.MirrorFromURL(ctx, imageURL)
		if err != nil {
			logger.Get().Warn().Err(err).Str("url", imageURL).Msg("image mirroring failed, serving upstream URL")
		} else {
			result.ImageURL = mirrored
			result.Mirrored = true
		}
	}

	return result, nil
}

// ExtractImageURL probes the payload for the generated image: known URL
// keys first (top level, then one level down in sorted-key order), then any
// http(s) string, then base64 image data rendered as a data URI.
func ExtractImageURL(payload any) (string, bool) {
	obj := asObject(payload)
	if obj == nil {
		if s, ok := payload.(string); ok && isHTTP(s) {
			return strings.TrimSpace(s), true
		}
		return "", false
	}

	// data.url is the most common shape
	if nested := asObject(obj["data"]); nested != nil {
		if s, ok := urlFromKeys(nested); ok {
			return s, true
		}
	}
	if s, ok := urlFromKeys(obj); ok {
		return s, true
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if nested := asObject(obj[k]); nested != nil {
			if s, ok := urlFromKeys(nested); ok {
				return s, true
			}
		}
	}
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && isHTTP(s) {
			return strings.TrimSpace(s), true
		}
	}

	// Base64 payloads arrive under data or b64_json at the top level, or
	// nested OpenAI-style as data[0].b64_json.
	if s, ok := base64URI(obj); ok {
		return s, true
	}
	if nested := asObject(obj["data"]); nested != nil {
		if s, ok := base64URI(nested); ok {
			return s, true
		}
	}

	return "", false
}

func base64URI(obj map[string]any) (string, bool) {
	for _, key := range []string{"b64_json", "data"} {
		if s, ok := obj[key].(string); ok && len(s) > 64 && !isHTTP(s) {
			return "data:image/png;base64," + s, true
		}
	}
	return "", false
}

func urlFromKeys(obj map[string]any) (string, bool) {
	for _, key := range urlKeys {
		if s, ok := obj[key].(string); ok && isHTTP(s) {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func asObject(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case []any:
		if len(val) > 0 {
			return asObject(val[0])
		}
	}
	return nil
}

func isHTTP(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
