package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sahafa/newsroom/internal/models"
)

// MockNewsCache provides an in-memory implementation for tests and for
// running without Redis.
type MockNewsCache struct {
	mu   sync.RWMutex
	data map[string]mockEntry
}

type mockEntry struct {
	items   []models.NewsItem
	expires time.Time
}

func NewMockNewsCache() *MockNewsCache {
	return &MockNewsCache{data: make(map[string]mockEntry)}
}

func (m *MockNewsCache) Close() error {
	return nil
}

func (m *MockNewsCache) GetNews(ctx context.Context, key string) ([]models.NewsItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.data[key]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.items, true
}

func (m *MockNewsCache) SetNews(ctx context.Context, key string, items []models.NewsItem, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = mockEntry{items: items, expires: time.Now().Add(ttl)}
	return nil
}
