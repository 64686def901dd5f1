package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDialTimeout bounds connecting and the startup ping.
const DefaultDialTimeout = 5 * time.Second

// Options tune the connection built from a redis:// URL. Zero values keep the
// URL's settings.
type Options struct {
	PoolSize    int
	DialTimeout time.Duration
}

// NewClient connects to the Redis at redisURL and pings it once.
func NewClient(ctx context.Context, redisURL string, o Options) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if o.PoolSize > 0 {
		opts.PoolSize = o.PoolSize
	}
	switch {
	case o.DialTimeout > 0:
		opts.DialTimeout = o.DialTimeout
	case opts.DialTimeout <= 0:
		opts.DialTimeout = DefaultDialTimeout
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
