package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobilling/internal/adapter/repository/memory"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return fmt.Sprintf("id-%05d", g.n.Add(1))
}

// testClock advances by step on every read.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store        *memory.Store
	clock        *testClock
	accounts     *usecase.AccountUseCase
	charges      *usecase.ChargeUseCase
	transactions *usecase.TransactionUseCase
	invoices     *usecase.InvoiceUseCase
	cards        *usecase.CreditCardUseCase
	outbox       *memory.OutboxRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	txm := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	chargeRepo := memory.NewChargeRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	invoiceRepo := memory.NewInvoiceRepository(store)
	cardRepo := memory.NewCreditCardRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)

	ids := &sequentialIDs{}
	clock := &testClock{now: baseTime, step: time.Second}
	log := zerolog.Nop()

	return &fixture{
		store:        store,
		clock:        clock,
		accounts:     usecase.NewAccountUseCase(txm, accountRepo, chargeRepo, txRepo, invoiceRepo, outboxRepo, ids, clock, log, nil),
		charges:      usecase.NewChargeUseCase(txm, accountRepo, chargeRepo, outboxRepo, ids, clock, log, nil),
		transactions: usecase.NewTransactionUseCase(txm, accountRepo, txRepo, invoiceRepo, outboxRepo, ids, clock, log, nil),
		invoices:     usecase.NewInvoiceUseCase(txm, accountRepo, chargeRepo, txRepo, invoiceRepo, outboxRepo, ids, clock, nil, log, nil),
		cards:        usecase.NewCreditCardUseCase(txm, accountRepo, cardRepo, outboxRepo, ids, clock, log, nil),
		outbox:       outboxRepo,
	}
}

func (f *fixture) openAccount(t *testing.T, owner string) *domain.Account {
	t.Helper()

	acc, err := f.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{OwnerID: owner, Currency: "USD"})
	require.NoError(t, err)
	return acc
}

func (f *fixture) addCharge(t *testing.T, accountID, amount, currency string) *domain.Charge {
	t.Helper()

	c, err := f.charges.CreateCharge(context.Background(), usecase.CreateChargeInput{
		AccountID:  accountID,
		Amount:     decimal.RequireFromString(amount),
		Currency:   currency,
		AdHocLabel: "usage",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) pay(t *testing.T, accountID, amount, currency string, success bool, invoiceID *string) *domain.Transaction {
	t.Helper()

	tr, err := f.transactions.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		AccountID:     accountID,
		InvoiceID:     invoiceID,
		Amount:        decimal.RequireFromString(amount),
		Currency:      currency,
		Success:       success,
		PaymentMethod: "CC",
		ProviderKind:  "stripe",
		ProviderID:    "ch_test",
	})
	require.NoError(t, err)
	return tr
}

func total(monies ...domain.Money) domain.Total {
	return domain.NewTotal(monies...)
}

func usd(amount string) domain.Money { return domain.MustMoney(amount, "USD") }

func eur(amount string) domain.Money { return domain.MustMoney(amount, "EUR") }

func unpublishedTypes(t *testing.T, f *fixture) []string {
	t.Helper()

	events, err := f.outbox.GetUnpublished(context.Background(), 1000)
	require.NoError(t, err)
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType
	}
	return types
}
