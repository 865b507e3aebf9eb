package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.InsightCache = (*RedisInsightCache)(nil)

const DefaultInsightTTL = time.Hour

type RedisInsightCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisInsightCache(client *redis.Client, ttl time.Duration) *RedisInsightCache {
	if ttl <= 0 {
		ttl = DefaultInsightTTL
	}
	return &RedisInsightCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisInsightCache) key(userID string) string {
	return fmt.Sprintf("insights:%s", userID)
}

func (c *RedisInsightCache) Get(ctx context.Context, userID string) ([]domain.Insight, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache: get insights: %w", err)
	}

	var insights []domain.Insight
	if err := json.Unmarshal(val, &insights); err != nil {
		c.client.Del(ctx, c.key(userID))
		return nil, domain.ErrCacheMiss
	}
	return insights, nil
}

func (c *RedisInsightCache) Set(ctx context.Context, userID string, insights []domain.Insight) error {
	data, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("cache: encode insights: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set insights: %w", err)
	}
	return nil
}
