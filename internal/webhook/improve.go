package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
)

const maxRedirects = 3

// getFallbackMarkers are the upstream 404 bodies that mean the workflow is
// registered for GET instead of POST.
var getFallbackMarkers = []string{
	"not registered for POST",
	"Did you mean to make a GET request",
}

// ForwardWithRecovery is the text-improvement proxy path: POST the payload,
// replay manually on 3xx (same method and body against Location), and retry
// as a query-string GET when the upstream says it only accepts GET. One
// wall-clock deadline covers every attempt, not each one.
func (c *Client) ForwardWithRecovery(ctx context.Context, target string, body []byte, contentType string, deadline time.Duration) models.Envelope {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	resp, err := c.post(ctx, target, body, contentType)
	if err != nil {
		return models.ErrorEnvelope(err)
	}

	currentURL := target
	for hops := 0; hops < maxRedirects && isRedirect(resp.StatusCode()); hops++ {
		loc := resp.Header().Get("Location")
		if loc == "" {
			break
		}
		resolved, ok := resolveLocation(currentURL, loc)
		if !ok {
			break
		}

		logger.Get().Info().
			Str("from", currentURL).
			Str("to", resolved).
			Int("status", resp.StatusCode()).
			Msg("replaying redirected webhook POST")

		currentURL = resolved
		resp, err = c.post(ctx, resolved, body, contentType)
		if err != nil {
			return models.ErrorEnvelope(err)
		}
	}

	if resp.StatusCode() == http.StatusNotFound && hasGetMarker(resp.Body()) {
		if params, perr := flattenJSON(body); perr == nil {
			logger.Get().Info().Str("url", currentURL).Msg("retrying webhook as GET")
			return c.Get(ctx, currentURL, params)
		}
	}

	return Normalize(resp.StatusCode(), resp.Body())
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func resolveLocation(base, loc string) (string, bool) {
	ref, err := url.Parse(loc)
	if err != nil {
		return "", false
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return loc, true
	}
	return parsed.ResolveReference(ref).String(), true
}

func hasGetMarker(body []byte) bool {
	for _, marker := range getFallbackMarkers {
		if bytes.Contains(body, []byte(marker)) {
			return true
		}
	}
	return false
}

// flattenJSON converts a JSON object body into flat query parameters for
// the GET retry. Non-object payloads are sent under a single "payload" key.
func flattenJSON(body []byte) (map[string]string, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, err
	}

	params := make(map[string]string)
	obj, ok := decoded.(map[string]any)
	if !ok {
		params["payload"] = strings.TrimSpace(string(body))
		return params, nil
	}
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			params[k] = val
		default:
			raw, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("flattening %q: %w", k, err)
			}
			params[k] = string(raw)
		}
	}
	return params, nil
}
