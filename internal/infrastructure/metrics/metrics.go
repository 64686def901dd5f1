package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated    prometheus.Counter
	AccountTransitions *prometheus.CounterVec

	// Charge metrics
	ChargesCreated *prometheus.CounterVec

	// Transaction metrics
	TransactionsRecorded *prometheus.CounterVec

	// Invoice metrics
	InvoicesCreated    prometheus.Counter
	InvoiceTransitions *prometheus.CounterVec
	InvoicingRetries   prometheus.Counter
	InvoicingDuration  prometheus.Histogram

	// Credit card metrics
	CardsRegistered   prometheus.Counter
	CardTransitions   *prometheus.CounterVec
	CardExpiryUpdates prometheus.Counter

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobilling_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_account_transitions_total",
				Help: "Account state transitions by event",
			},
			[]string{"event"},
		),

		// Charge metrics
		ChargesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_charges_created_total",
				Help: "Total number of charges created by type",
			},
			[]string{"type"},
		),

		// Transaction metrics
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_transactions_recorded_total",
				Help: "Total number of transactions recorded by type and outcome",
			},
			[]string{"type", "outcome"},
		),

		// Invoice metrics
		InvoicesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobilling_invoices_created_total",
			Help: "Total number of invoices created",
		}),
		InvoiceTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_invoice_transitions_total",
				Help: "Invoice state transitions by event",
			},
			[]string{"event"},
		),
		InvoicingRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobilling_invoicing_retries_total",
			Help: "Invoice creations retried after losing charges to a concurrent invoicer",
		}),
		InvoicingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobilling_invoicing_duration_seconds",
			Help:    "Duration of invoice creation including retries",
			Buckets: prometheus.DefBuckets,
		}),

		// Credit card metrics
		CardsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobilling_cards_registered_total",
			Help: "Total number of credit cards registered",
		}),
		CardTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_card_transitions_total",
				Help: "Credit card state transitions by event",
			},
			[]string{"event"},
		),
		CardExpiryUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobilling_card_expiry_updates_total",
			Help: "Total number of credit card expiry changes",
		}),

		// Outbox metrics
		OutboxPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_outbox_published_total",
				Help: "Outbox events handed to the broker by status",
			},
			[]string{"status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobilling_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobilling_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Database metrics
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobilling_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
