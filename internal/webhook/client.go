// Package webhook forwards dashboard requests to the external automation
// workflows and normalizes whatever comes back into a uniform envelope.
// The proxy never surfaces upstream failures as HTTP errors of its own:
// callers always get an envelope and decide from OK/Status.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
)

// Client wraps the HTTP transport shared by every proxy endpoint.
type Client struct {
	http    *resty.Client
	timeout time.Duration
}

// NewClient builds a webhook client. Redirects are never auto-followed:
// some runtimes silently drop POST bodies on 307/308, so the improve flow
// replays them by hand instead. timeout bounds standalone calls only; the
// recovery and race paths share one wall-clock deadline across all their
// attempts, so their individual requests must not be capped again.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			})),
		timeout: timeout,
	}
}

// bound applies the standalone timeout to contexts that carry no deadline
// yet. Calls made under ForwardWithRecovery or Race already inherit the
// shared deadline and pass through untouched.
func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// post issues the upstream POST and returns the raw response; callers that
// need headers (redirect replay) use this, everything else goes through
// Forward.
func (c *Client) post(ctx context.Context, url string, body []byte, contentType string) (*resty.Response, error) {
	if contentType == "" {
		contentType = "application/json"
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(url)
}

// Forward posts the body to the upstream URL as-is and wraps the response.
// contentType is preserved so multipart uploads keep their boundary.
func (c *Client) Forward(ctx context.Context, url string, body []byte, contentType string) models.Envelope {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.post(ctx, url, body, contentType)
	if err != nil {
		logger.Get().Error().Err(err).Str("url", url).Msg("webhook request failed")
		return models.ErrorEnvelope(err)
	}
	return Normalize(resp.StatusCode(), resp.Body())
}

// Get issues a query-string GET against the upstream and wraps the response.
func (c *Client) Get(ctx context.Context, url string, params map[string]string) models.Envelope {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		logger.Get().Error().Err(err).Str("url", url).Msg("webhook GET failed")
		return models.ErrorEnvelope(err)
	}
	return Normalize(resp.StatusCode(), resp.Body())
}

// Normalize turns an upstream status and body into the envelope shape:
// JSON bodies become the data variant, anything else the raw body variant.
func Normalize(status int, body []byte) models.Envelope {
	var data any
	if len(body) > 0 && json.Unmarshal(body, &data) == nil {
		return models.DataEnvelope(status, data)
	}
	return models.BodyEnvelope(status, string(body))
}
