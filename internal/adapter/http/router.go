package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobilling/internal/adapter/http/handler"
	"github.com/iho/gobilling/internal/adapter/http/middleware"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
	"github.com/iho/gobilling/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	ChargeHandler      *handler.ChargeHandler
	TransactionHandler *handler.TransactionHandler
	InvoiceHandler     *handler.InvoiceHandler
	CreditCardHandler  *handler.CreditCardHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/billable", cfg.AccountHandler.ListBillable)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/close", cfg.AccountHandler.Close)
			r.Post("/{id}/reopen", cfg.AccountHandler.Reopen)
			r.Get("/{id}/balance", cfg.AccountHandler.Balance)
			r.Get("/{id}/past-due", cfg.AccountHandler.PastDue)

			r.Post("/{id}/charges", cfg.ChargeHandler.Create)
			r.Get("/{id}/charges", cfg.ChargeHandler.ListByAccount)
			r.Get("/{id}/charges/uninvoiced", cfg.ChargeHandler.Uninvoiced)

			r.Post("/{id}/transactions", cfg.TransactionHandler.Record)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListSuccessful)

			r.Post("/{id}/invoices", cfg.InvoiceHandler.Create)
			r.Get("/{id}/invoices", cfg.InvoiceHandler.ListByAccount)

			r.Post("/{id}/credit-cards", cfg.CreditCardHandler.Register)
			r.Get("/{id}/credit-cards/valid", cfg.CreditCardHandler.ListValid)
		})

		// Charges
		r.Get("/charges/{id}", cfg.ChargeHandler.Get)

		// Transactions
		r.Get("/transactions/{id}", cfg.TransactionHandler.Get)

		// Invoices
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", cfg.InvoiceHandler.ListPayable)
			r.Post("/overdue", cfg.InvoiceHandler.MarkOverdue)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.Post("/{id}/past-due", cfg.InvoiceHandler.MarkPastDue)
			r.Post("/{id}/pay", cfg.InvoiceHandler.Pay)
			r.Post("/{id}/cancel", cfg.InvoiceHandler.Cancel)
			r.Get("/{id}/total", cfg.InvoiceHandler.Total)
			r.Get("/{id}/charges", cfg.InvoiceHandler.ListCharges)
			r.Get("/{id}/transactions", cfg.InvoiceHandler.ListTransactions)
		})

		// Credit cards
		r.Route("/credit-cards", func(r chi.Router) {
			r.Get("/expiring", cfg.CreditCardHandler.ListExpiring)
			r.Get("/{id}", cfg.CreditCardHandler.Get)
			r.Put("/{id}/expiry", cfg.CreditCardHandler.UpdateExpiry)
			r.Post("/{id}/deactivate", cfg.CreditCardHandler.Deactivate)
			r.Post("/{id}/reactivate", cfg.CreditCardHandler.Reactivate)
			r.Get("/{id}/validity", cfg.CreditCardHandler.Validity)
		})
	})

	return r
}
