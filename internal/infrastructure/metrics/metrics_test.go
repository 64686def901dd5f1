package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistererRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.AccountsCreated == nil || m.HTTPRequests == nil || m.InvoiceTransitions == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.InvoicesCreated.Inc()
	m.InvoiceTransitions.WithLabelValues("pay").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.InvoicesCreated); got != 1 {
		t.Fatalf("expected invoices created 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.InvoiceTransitions.WithLabelValues("pay")); got != 1 {
		t.Fatalf("expected pay transitions 1, got %v", got)
	}
}

func TestNewWithRegistererTwiceOnSameRegistryPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewWithRegisterer(registry)

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	NewWithRegisterer(registry)
}
