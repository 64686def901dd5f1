package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client, nil)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists || string(resp) != "cached" {
		t.Fatalf("expected existing cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client, nil)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"pending").Result()
	if err != nil || val != placeholder {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}

	exists, resp, err = store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || !exists || string(resp) != placeholder {
		t.Fatalf("expected second claim to see placeholder, got exists=%v resp=%s err=%v", exists, resp, err)
	}
}

func TestIdempotencyStore_CheckAndSetExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client, nil)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "short", nil, time.Second); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "short", nil, time.Second)
	if err != nil || exists {
		t.Fatalf("expected expired key to be claimable, got exists=%v err=%v", exists, err)
	}
}

func TestIdempotencyStore_Update(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client, nil)
	ctx := context.Background()

	if err := store.Update(ctx, "complete", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"complete").Result()
	if err != nil || val != "done" {
		t.Fatalf("expected stored response, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStore_RecordsMetrics(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	store := NewIdempotencyStore(client, m)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if got := testutil.ToFloat64(m.RedisOperations.WithLabelValues("setnx")); got != 1 {
		t.Fatalf("expected 1 setnx operation, got %v", got)
	}

	mr.Close()

	if err := store.Update(ctx, "key", []byte("done"), time.Minute); err == nil {
		t.Fatalf("expected error with redis down")
	}

	if got := testutil.ToFloat64(m.RedisErrors.WithLabelValues("set")); got != 1 {
		t.Fatalf("expected 1 set error, got %v", got)
	}
}

func TestIdempotencyStore_DeleteReleasesKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client, nil)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "failed", nil, time.Hour); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if err := store.Delete(ctx, "failed"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, "failed"); err != nil {
		t.Fatalf("deleting a missing key failed: %v", err)
	}

	exists, _, err := store.CheckAndSet(ctx, "failed", nil, time.Hour)
	if err != nil || exists {
		t.Fatalf("expected released key to be claimable, got exists=%v err=%v", exists, err)
	}
}
