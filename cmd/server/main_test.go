package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobilling/internal/adapter/repository/memory"
	"github.com/iho/gobilling/internal/infrastructure/config"
	"github.com/iho/gobilling/internal/infrastructure/eventpublisher"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage:           config.StorageMemory,
		InvoiceMaxRetries: 3,
		HTTPPort:          "0",
	}
}

func TestNewRouter_MemoryStorage(t *testing.T) {
	cfg := memoryConfig()
	repos, err := openStorage(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer repos.close()

	router := newRouter(cfg, repos, nil, metrics.NewWithRegisterer(prometheus.NewRegistry()), zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"memory":"ok"`)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(`{"owner_id":"o-1","currency":"usd"}`))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"currency":"USD"`)
}

func TestMemoryRepositories_ShareStore(t *testing.T) {
	repos := memoryRepositories(memory.New())

	assert.NotNil(t, repos.txManager)
	assert.NoError(t, repos.ping.Ping(context.Background()))
}

func TestOpenRedis_DisabledWithoutURL(t *testing.T) {
	cfg := memoryConfig()
	cfg.RedisURL = ""

	assert.Nil(t, openRedis(context.Background(), cfg, zerolog.Nop()))
}

func TestNewPublisher_FallsBackToLog(t *testing.T) {
	publisher, closeFn, err := newPublisher(memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	_, ok := publisher.(*eventpublisher.LogPublisher)
	assert.True(t, ok, "expected LogPublisher when AMQP_URL is empty")
}
