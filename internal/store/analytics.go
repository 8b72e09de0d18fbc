package store

import (
	"context"
	"fmt"
	"time"
)

// Metric names accepted by the track endpoint; each maps to one analytics
// column.
const (
	MetricPageView    = "page_view"
	MetricArticleView = "article_view"
	MetricSearch      = "search"
	MetricTranslation = "translation"
	MetricImprove     = "improve"
)

var metricColumns = map[string]string{
	MetricPageView:    "page_view_count",
	MetricArticleView: "article_view_count",
	MetricSearch:      "search_count",
	MetricTranslation: "translation_count",
	MetricImprove:     "improve_count",
}

// ErrUnknownMetric marks a metric name outside the fixed set.
type ErrUnknownMetric struct{ Metric string }

func (e ErrUnknownMetric) Error() string {
	return fmt.Sprintf("unknown analytics metric %q", e.Metric)
}

// DailyAnalytics is one row of the per-day counters table.
type DailyAnalytics struct {
	Date             time.Time `db:"date" json:"date"`
	PageViewCount    int       `db:"page_view_count" json:"page_view_count"`
	ArticleViewCount int       `db:"article_view_count" json:"article_view_count"`
	SearchCount      int       `db:"search_count" json:"search_count"`
	TranslationCount int       `db:"translation_count" json:"translation_count"`
	ImproveCount     int       `db:"improve_count" json:"improve_count"`
}

// TrackMetric increments one counter on today's row, creating the row on
// first use. The upsert keeps the one-row-per-day invariant without a
// read-modify-write race.
func (s *Store) TrackMetric(ctx context.Context, metric string, day time.Time) (*DailyAnalytics, error) {
	column, ok := metricColumns[metric]
	if !ok {
		return nil, ErrUnknownMetric{Metric: metric}
	}

	// column comes from the fixed map above, never from user input.
	query := fmt.Sprintf(`
INSERT INTO analytics (date, %[1]s) VALUES ($1, 1)
ON CONFLICT (date) DO UPDATE SET %[1]s = analytics.%[1]s + 1
RETURNING date, page_view_count, article_view_count, search_count, translation_count, improve_count`,
		column)

	var row DailyAnalytics
	if err := s.db.GetContext(ctx, &row, query, day.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("tracking %s: %w", metric, err)
	}
	return &row, nil
}

// AnalyticsRange returns the daily rows between from and to inclusive,
// oldest first.
func (s *Store) AnalyticsRange(ctx context.Context, from, to time.Time) ([]DailyAnalytics, error) {
	var rows []DailyAnalytics
	err := s.db.SelectContext(ctx, &rows, `
SELECT date, page_view_count, article_view_count, search_count, translation_count, improve_count
FROM analytics
WHERE date BETWEEN $1 AND $2
ORDER BY date`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("reading analytics range: %w", err)
	}
	return rows, nil
}

// ValidMetric reports whether the track endpoint accepts this metric name.
func ValidMetric(metric string) bool {
	_, ok := metricColumns[metric]
	return ok
}
