package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
	"github.com/samber/lo"
)

// attempt is one URL/method combination tried by the search proxy.
type attempt struct {
	method string
	url    string
	send   func(ctx context.Context) models.Envelope
}

// RaceResult carries the first successful envelope, or the last failure
// plus every URL that was tried, for diagnostic reporting.
type RaceResult struct {
	Envelope      models.Envelope
	AttemptedURLs []string
}

// Race tries the production and test webhook URLs with POST-JSON, POST-form
// and GET-query variants, sequentially, stopping at the first 2xx. The n8n
// search workflow has moved between these registrations often enough that
// probing all of them beats chasing its current one.
func (c *Client) Race(ctx context.Context, urls []string, payload map[string]string, deadline time.Duration) RaceResult {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	urls = lo.Compact(urls)
	attempts := c.buildAttempts(urls, payload)

	var last models.Envelope
	tried := make([]string, 0, len(attempts))

	for _, a := range attempts {
		tried = append(tried, a.method+" "+a.url)
		last = a.send(ctx)
		if last.OK {
			return RaceResult{Envelope: last, AttemptedURLs: tried}
		}
		logger.Get().Warn().
			Str("method", a.method).
			Str("url", a.url).
			Int("status", last.Status).
			Msg("search webhook attempt failed")

		if ctx.Err() != nil {
			break
		}
	}

	return RaceResult{Envelope: last, AttemptedURLs: tried}
}

func (c *Client) buildAttempts(urls []string, payload map[string]string) []attempt {
	jsonBody, _ := json.Marshal(payload)

	var attempts []attempt
	for _, u := range urls {
		u := u
		attempts = append(attempts,
			attempt{
				method: "POST",
				url:    u,
				send: func(ctx context.Context) models.Envelope {
					return c.Forward(ctx, u, jsonBody, "application/json")
				},
			},
			attempt{
				method: "POST",
				url:    u,
				send: func(ctx context.Context) models.Envelope {
					return c.postForm(ctx, u, payload)
				},
			},
			attempt{
				method: "GET",
				url:    u,
				send: func(ctx context.Context) models.Envelope {
					return c.Get(ctx, u, payload)
				},
			},
		)
	}
	return attempts
}

func (c *Client) postForm(ctx context.Context, url string, payload map[string]string) models.Envelope {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(payload).
		Post(url)

	if err != nil {
		return models.ErrorEnvelope(err)
	}
	return Normalize(resp.StatusCode(), resp.Body())
}
