package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/gobilling/internal/adapter/http/dto"
	"github.com/iho/gobilling/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobilling/internal/adapter/http/middleware"
	"github.com/iho/gobilling/internal/adapter/repository/memory"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
	"github.com/iho/gobilling/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ReadyPingsStore(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /ready to return 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"owner_id":"owner-1","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{id}/balance",
		"POST /api/v1/accounts/{id}/charges",
		"POST /api/v1/accounts/{id}/invoices",
		"GET /api/v1/invoices/{id}/total",
		"POST /api/v1/invoices/overdue",
		"GET /api/v1/credit-cards/{id}/validity",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_BillingFlow(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	var account dto.AccountResponse
	doJSON(t, router, http.MethodPost, "/api/v1/accounts/", `{"owner_id":"owner-1","currency":"USD"}`, http.StatusCreated, &account)

	base := "/api/v1/accounts/" + account.ID
	doJSON(t, router, http.MethodPost, base+"/charges", `{"amount":"10","currency":"USD","ad_hoc_label":"setup"}`, http.StatusCreated, nil)
	doJSON(t, router, http.MethodPost, base+"/charges", `{"amount":"-3","currency":"USD","ad_hoc_label":"discount"}`, http.StatusCreated, nil)
	doJSON(t, router, http.MethodPost, base+"/charges", `{"amount":"5","currency":"EUR","product_code":"PLAN01"}`, http.StatusCreated, nil)

	var uninvoiced dto.ChargesWithTotalResponse
	doJSON(t, router, http.MethodGet, base+"/charges/uninvoiced", "", http.StatusOK, &uninvoiced)
	want := domain.NewTotal(domain.MustMoney("7", "USD"), domain.MustMoney("5", "EUR"))
	if !uninvoiced.Total.Equal(want) {
		t.Fatalf("uninvoiced total = %s, want %s", uninvoiced.Total, want)
	}

	var invoice dto.InvoiceResponse
	doJSON(t, router, http.MethodPost, base+"/invoices", "", http.StatusCreated, &invoice)

	var total dto.TotalResponse
	doJSON(t, router, http.MethodGet, "/api/v1/invoices/"+invoice.ID+"/total", "", http.StatusOK, &total)
	if !total.Total.Equal(want) {
		t.Fatalf("invoice total = %s, want %s", total.Total, want)
	}

	doJSON(t, router, http.MethodPost, base+"/invoices", "", http.StatusConflict, nil)

	doJSON(t, router, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/pay", "", http.StatusOK, nil)
	doJSON(t, router, http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/cancel", "", http.StatusConflict, nil)

	body := fmt.Sprintf(`{"invoice_id":%q,"amount":"7","currency":"USD","success":true,"payment_method":"CC","psp_kind":"stripe","psp_id":"ch_1"}`, invoice.ID)
	doJSON(t, router, http.MethodPost, base+"/transactions", body, http.StatusCreated, nil)

	var balance dto.TotalResponse
	doJSON(t, router, http.MethodGet, base+"/balance", "", http.StatusOK, &balance)
	wantBalance := domain.NewTotal(domain.MustMoney("0", "USD"), domain.MustMoney("-5", "EUR"))
	if !balance.Total.Equal(wantBalance) {
		t.Fatalf("balance = %s, want %s", balance.Total, wantBalance)
	}
}

func TestNewRouter_UnknownAccountIs404(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	doJSON(t, router, http.MethodGet, "/api/v1/accounts/missing/balance", "", http.StatusNotFound, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, wantStatus int, out any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	store := memory.New()
	txManager := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	chargeRepo := memory.NewChargeRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	invoiceRepo := memory.NewInvoiceRepository(store)
	cardRepo := memory.NewCreditCardRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)

	idGen := &sequentialIDs{}
	clock := &tickingClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	logger := zerolog.Nop()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, chargeRepo, transactionRepo, invoiceRepo, outboxRepo, idGen, clock, logger, m)
	chargeUC := usecase.NewChargeUseCase(txManager, accountRepo, chargeRepo, outboxRepo, idGen, clock, logger, m)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, invoiceRepo, outboxRepo, idGen, clock, logger, m)
	invoiceUC := usecase.NewInvoiceUseCase(txManager, accountRepo, chargeRepo, transactionRepo, invoiceRepo, outboxRepo, idGen, clock, nil, logger, m)
	cardUC := usecase.NewCreditCardUseCase(txManager, accountRepo, cardRepo, outboxRepo, idGen, clock, logger, m)

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		ChargeHandler:      handler.NewChargeHandler(chargeUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		InvoiceHandler:     handler.NewInvoiceHandler(invoiceUC),
		CreditCardHandler:  handler.NewCreditCardHandler(cardUC),
		HealthHandler:      handler.NewHealthHandler(map[string]handler.Pinger{"store": store}),
		Metrics:            m,
		Logger:             logger,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type sequentialIDs struct {
	n atomic.Int64
}

func (s *sequentialIDs) Generate() string {
	return fmt.Sprintf("id-%04d", s.n.Add(1))
}

// tickingClock advances one second per call so creation order is stable.
type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Delete(ctx context.Context, key string) error {
	return nil
}
