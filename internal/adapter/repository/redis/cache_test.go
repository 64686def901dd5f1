package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/gobilling/internal/domain"
)

func TestTotalCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewTotalCache(client, time.Minute, nil)
	ctx := context.Background()

	want := domain.NewTotal(domain.MustMoney("7.00", "USD"), domain.MustMoney("5.00", "EUR"))
	if err := cache.Set(ctx, "inv-1", want); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, ok, err := cache.Get(ctx, "inv-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestTotalCacheMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewTotalCache(client, time.Minute, nil)

	_, ok, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}

func TestTotalCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewTotalCache(client, time.Second, nil)
	ctx := context.Background()

	if err := cache.Set(ctx, "inv-1", domain.NewTotal(domain.MustMoney("1.00", "USD"))); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, ok, _ := cache.Get(ctx, "inv-1"); ok {
		t.Fatalf("expected expired key to miss")
	}
}
