package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	mw := NewMetricsMiddleware(m)

	r := chi.NewRouter()
	r.Use(mw.Wrap)
	r.Get("/api/v1/invoices/{id}/total", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1/total", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rr.Code)
	}
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}

	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/invoices/{id}/total", "418")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestMetricsMiddlewareFallsBackToNormalizedPath(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	mw := NewMetricsMiddleware(m)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/01HQ3N5J6K7M8P9QRSTVWXYZ01/charges", nil))

	counter := m.HTTPRequests.WithLabelValues(http.MethodPost, "/api/v1/accounts/:id/charges", "201")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "account path without suffix",
			input:    "/api/v1/accounts/01HQ3N5J6K7M8P9QRSTVWXYZ01",
			expected: "/api/v1/accounts/:id",
		},
		{
			name:     "invoice path with suffix",
			input:    "/api/v1/invoices/01HQ3N5J6K7M8P9QRSTVWXYZ01/total",
			expected: "/api/v1/invoices/:id/total",
		},
		{
			name:     "lowercase segment is kept",
			input:    "/api/v1/credit-cards/expiring",
			expected: "/api/v1/credit-cards/expiring",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
