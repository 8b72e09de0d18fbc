package news

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sahafa/newsroom/internal/cache"
	"github.com/sahafa/newsroom/internal/logger"
	"github.com/sahafa/newsroom/internal/models"
)

type fetchFunc func(ctx context.Context, src Source) ([]models.NewsItem, error)

// Aggregator fetches every source for a country/language pair, merges the
// survivors and caches the merged list.
type Aggregator struct {
	fetch          fetchFunc
	direct         fetchFunc
	store          cache.NewsCache
	ttl            time.Duration
	maxConcurrency int
}

// Report is one aggregation pass: the merged items plus which sources
// failed, in priority order, for logging and the UI's warning banner.
type Report struct {
	Items         []models.NewsItem `json:"items"`
	FailedSources []string          `json:"failed_sources,omitempty"`
	FromCache     bool              `json:"from_cache"`
}

// AllFailed reports whether not a single source delivered.
func (r Report) AllFailed() bool {
	return len(r.Items) == 0 && len(r.FailedSources) > 0
}

func NewAggregator(fetcher *Fetcher, store cache.NewsCache, ttl time.Duration, maxConcurrency int) *Aggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &Aggregator{
		fetch:          fetcher.Fetch,
		direct:         FetchDirect,
		store:          store,
		ttl:            ttl,
		maxConcurrency: maxConcurrency,
	}
}

// Aggregate serves from cache when possible, otherwise fetches all matching
// sources concurrently. A failed source contributes nothing and is recorded;
// only an unknown country/language is an actual error.
func (a *Aggregator) Aggregate(ctx context.Context, country, language string) (Report, error) {
	if !ValidCountry(country) {
		return Report{}, fmt.Errorf("unknown country %q", country)
	}
	if !ValidLanguage(language) {
		return Report{}, fmt.Errorf("unknown language %q", language)
	}

	log := logger.Get()
	key := country + ":" + language

	if a.store != nil {
		if items, ok := a.store.GetNews(ctx, key); ok {
			log.Debug().Str("key", key).Int("items", len(items)).Msg("news served from cache")
			return Report{Items: items, FromCache: true}, nil
		}
	}

	selected := Select(country, language)
	report := a.fetchAll(ctx, selected)

	if len(report.FailedSources) > 0 {
		log.Warn().
			Strs("failed_sources", report.FailedSources).
			Str("key", key).
			Msg("some news sources failed")
	}

	// The SET uses the fetch's own context: a cancelled request never
	// writes a half-fetched list.
	if a.store != nil && !report.AllFailed() {
		if err := a.store.SetNews(ctx, key, report.Items, a.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache news")
		}
	}

	return report, nil
}

// fetchAll runs the per-source fetches behind a semaphore and merges the
// results sorted by date, newest first.
func (a *Aggregator) fetchAll(ctx context.Context, selected []Source) Report {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		merged    []models.NewsItem
		failed    = make(map[string]bool)
		semaphore = make(chan struct{}, a.maxConcurrency)
	)

	for _, src := range selected {
		select {
		case <-ctx.Done():
			mu.Lock()
			failed[src.Name] = true
			mu.Unlock()
			continue
		case semaphore <- struct{}{}:
		}

		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			items, err := a.fetch(ctx, src)
			if err != nil && a.direct != nil {
				logger.Get().Warn().
					Err(err).
					Str("source", src.Name).
					Msg("converter failed, trying the feed directly")
				items, err = a.direct(ctx, src)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Get().Warn().Err(err).Str("source", src.Name).Msg("news source failed")
				failed[src.Name] = true
				return
			}
			merged = append(merged, items...)
		}()
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PubDate.After(merged[j].PubDate)
	})

	// Failed sources keep the table's priority order in the report.
	var failedNames []string
	for _, src := range selected {
		if failed[src.Name] {
			failedNames = append(failedNames, src.Name)
		}
	}

	return Report{Items: merged, FailedSources: failedNames}
}
