package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sahafa/newsroom/internal/models"
)

// converterResponse is the RSS-to-JSON converter's shape.
type converterResponse struct {
	Status string `json:"status"`
	Feed   struct {
		Title string `json:"title"`
	} `json:"feed"`
	Items []converterItem `json:"items"`
}

type converterItem struct {
	Title       string   `json:"title"`
	PubDate     string   `json:"pubDate"`
	Link        string   `json:"link"`
	Guid        string   `json:"guid"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Categories  []string `json:"categories"`
}

// pubDateLayouts are tried in order; the converter usually emits the first,
// direct feeds use RFC1123 variants. An unparseable date stays zero and
// sorts last, which is the documented best-effort behavior.
var pubDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

// Fetcher reads one feed through the converter, with retries.
type Fetcher struct {
	client   *resty.Client
	endpoint string
}

// NewFetcher builds a converter client. Retries back off exponentially
// from one second and give up after two, leaving that source failed.
func NewFetcher(endpoint string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		endpoint: endpoint,
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(2).
			SetRetryWaitTime(1 * time.Second).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			}),
	}
}

// Fetch retrieves and normalizes a single source's items.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]models.NewsItem, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("rss_url", src.FeedURL).
		SetHeader("Accept", "application/json").
		Get(f.endpoint)

	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.Name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from converter for %s", resp.StatusCode(), src.Name)
	}

	var decoded converterResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("parsing converter response for %s: %w", src.Name, err)
	}
	if decoded.Status != "" && decoded.Status != "ok" {
		return nil, fmt.Errorf("converter status %q for %s", decoded.Status, src.Name)
	}

	items := make([]models.NewsItem, 0, len(decoded.Items))
	for _, it := range decoded.Items {
		items = append(items, models.NewsItem{
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Content:     it.Content,
			PubDate:     parsePubDate(it.PubDate),
			Link:        it.Link,
			Guid:        it.Guid,
			Source:      src.Name,
			Categories:  it.Categories,
			Thumbnail:   it.Thumbnail,
		})
	}
	return items, nil
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
