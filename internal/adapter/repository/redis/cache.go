package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// TotalCache implements usecase.TotalCache using Redis.
type TotalCache struct {
	client  redis.Cmdable
	prefix  string
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewTotalCache creates a new TotalCache. m may be nil.
func NewTotalCache(client redis.Cmdable, ttl time.Duration, m *metrics.Metrics) *TotalCache {
	return &TotalCache{
		client:  client,
		prefix:  "billing:total:",
		ttl:     ttl,
		metrics: m,
	}
}

// Get returns the cached total for key and whether it was present.
func (c *TotalCache) Get(ctx context.Context, key string) (domain.Total, bool, error) {
	observe(c.metrics, "get", nil)
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Total{}, false, nil
	}
	if err != nil {
		observe(c.metrics, "get", err)
		return domain.Total{}, false, err
	}

	var total domain.Total
	if err := json.Unmarshal(data, &total); err != nil {
		return domain.Total{}, false, err
	}

	return total, true, nil
}

// Set stores total under key.
func (c *TotalCache) Set(ctx context.Context, key string, total domain.Total) error {
	data, err := json.Marshal(total)
	if err != nil {
		return err
	}

	observe(c.metrics, "set", nil)
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		observe(c.metrics, "set", err)
		return err
	}
	return nil
}
