package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sahafa/newsroom/internal/config"
	"github.com/sahafa/newsroom/internal/models"
)

// NewsCache stores aggregated news lists per country/language key so
// repeated dashboard loads don't re-hit every source. A cache failure is
// never an error the caller has to care about beyond logging.
type NewsCache interface {
	GetNews(ctx context.Context, key string) ([]models.NewsItem, bool)
	SetNews(ctx context.Context, key string, items []models.NewsItem, ttl time.Duration) error
	Close() error
}

type RedisClient struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		prefix: cfg.RedisPrefix,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) GetNews(ctx context.Context, key string) ([]models.NewsItem, bool) {
	raw, err := r.client.Get(ctx, r.prefix+"news:"+key).Bytes()
	if err != nil {
		return nil, false
	}

	var items []models.NewsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (r *RedisClient) SetNews(ctx context.Context, key string, items []models.NewsItem, ttl time.Duration) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling news for cache: %w", err)
	}
	return r.client.Set(ctx, r.prefix+"news:"+key, raw, ttl).Err()
}
