package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestValidMetric(t *testing.T) {
	for _, m := range []string{MetricPageView, MetricArticleView, MetricSearch, MetricTranslation, MetricImprove} {
		if !ValidMetric(m) {
			t.Errorf("%s should be valid", m)
		}
	}
	if ValidMetric("clicks") {
		t.Error("unknown metric accepted")
	}
}

func TestTrackMetricRejectsUnknownMetric(t *testing.T) {
	// Validation happens before any database work, so a zero Store is fine.
	s := &Store{}
	_, err := s.TrackMetric(context.Background(), "clicks", time.Now())

	var unknown ErrUnknownMetric
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
	if unknown.Metric != "clicks" {
		t.Errorf("error should carry the metric name, got %q", unknown.Metric)
	}
}
