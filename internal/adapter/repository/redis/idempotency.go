package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// placeholder marks a key whose request is still being processed.
const placeholder = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client  redis.Cmdable
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client redis.Cmdable, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "billing:idempotency:",
		metrics: m,
	}
}

// CheckAndSet atomically claims key. When the key is already claimed it
// returns true with the stored value, which is the placeholder while the
// first request is still running.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	value := any(placeholder)
	if response != nil {
		value = response
	}

	s.observe("setnx", nil)
	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		s.observe("setnx", err)
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	s.observe("get", nil)
	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.observe("get", err)
		return false, nil, err
	}

	return true, existing, nil
}

// Update replaces the stored value for key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.observe("set", nil)
	if err := s.client.Set(ctx, s.prefix+key, response, ttl).Err(); err != nil {
		s.observe("set", err)
		return err
	}
	return nil
}

// Delete releases key. Deleting a missing key is not an error.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	s.observe("del", nil)
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.observe("del", err)
		return err
	}
	return nil
}

func (s *IdempotencyStore) observe(op string, err error) {
	observe(s.metrics, op, err)
}

func observe(m *metrics.Metrics, op string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RedisErrors.WithLabelValues(op).Inc()
		return
	}
	m.RedisOperations.WithLabelValues(op).Inc()
}
