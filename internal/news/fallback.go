package news

import (
	"context"
	"net/http"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/sahafa/newsroom/internal/models"
)

// fallbackTimeout bounds a direct feed fetch when the converter is down.
const fallbackTimeout = 15 * time.Second

// FetchDirect reads the feed XML straight from the source, bypassing the
// converter. Used only after converter retries are exhausted; if this
// fails too the source stays failed.
func FetchDirect(ctx context.Context, src Source) ([]models.NewsItem, error) {
	var (
		feedCh = make(chan *rss.Feed, 1)
		errCh  = make(chan error, 1)
	)

	go func() {
		feed, err := rss.FetchByClient(src.FeedURL, &http.Client{Timeout: fallbackTimeout})
		if err != nil {
			errCh <- err
			return
		}
		feedCh <- feed
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case feed := <-feedCh:
		items := make([]models.NewsItem, 0, len(feed.Items))
		for _, it := range feed.Items {
			items = append(items, models.NewsItem{
				Title:       it.Title,
				Description: it.Summary,
				Content:     it.Content,
				PubDate:     it.Date,
				Link:        it.Link,
				Guid:        it.ID,
				Source:      src.Name,
				Categories:  it.Categories,
			})
		}
		return items, nil
	}
}
