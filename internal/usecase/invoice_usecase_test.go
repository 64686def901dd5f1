package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
	"github.com/iho/gobilling/internal/usecase/mocks"
)

func TestInvoiceUseCase_CreateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")

	_, err := f.invoices.CreateInvoice(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNothingToInvoice)

	f.addCharge(t, acc.ID, "10.00", "USD")
	f.addCharge(t, acc.ID, "-3.00", "USD")
	f.addCharge(t, acc.ID, "5.00", "EUR")

	inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.Equal(t, acc.ID, inv.AccountID)

	sum, err := f.invoices.Total(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(total(usd("7.00"), eur("5.00"))), "got %s", sum)

	charges, err := f.invoices.ListCharges(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, charges, 3)
	for _, c := range charges {
		require.NotNil(t, c.InvoiceID)
		assert.Equal(t, inv.ID, *c.InvoiceID)
	}

	_, err = f.invoices.CreateInvoice(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNothingToInvoice)

	_, err = f.invoices.CreateInvoice(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Contains(t, unpublishedTypes(t, f), domain.EventTypeInvoiceCreated)
}

func TestInvoiceUseCase_CreateInvoiceConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	for i := 0; i < 20; i++ {
		f.addCharge(t, acc.ID, "1.00", "USD")
	}

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  []*domain.Invoice
		failures []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			created = append(created, inv)
		}()
	}
	wg.Wait()

	require.Len(t, created, 1)
	require.Len(t, failures, workers-1)
	for _, err := range failures {
		assert.ErrorIs(t, err, domain.ErrNothingToInvoice)
	}

	charges, err := f.invoices.ListCharges(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Len(t, charges, 20)

	sum, err := f.invoices.Total(ctx, created[0].ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(total(usd("20.00"))))
}

func TestInvoiceUseCase_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	f.addCharge(t, acc.ID, "10.00", "USD")

	inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
	require.NoError(t, err)

	pastDue, err := f.invoices.MarkPastDue(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPastDue, pastDue.Status)

	_, err = f.invoices.MarkPastDue(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	payed, err := f.invoices.Pay(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPayed, payed.Status)

	_, err = f.invoices.Cancel(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.invoices.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPayed, stored.Status)

	_, err = f.invoices.Pay(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceUseCase_MarkOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var invoices []*domain.Invoice
	for i, owner := range []string{"owner-1", "owner-2", "owner-3"} {
		f.clock.Set(baseTime.AddDate(0, 0, i*10))
		acc := f.openAccount(t, owner)
		f.addCharge(t, acc.ID, "10.00", "USD")
		inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
		require.NoError(t, err)
		invoices = append(invoices, inv)
	}

	_, err := f.invoices.Cancel(ctx, invoices[0].ID)
	require.NoError(t, err)

	moved, err := f.invoices.MarkOverdue(ctx, baseTime.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	moved, err = f.invoices.MarkOverdue(ctx, baseTime.AddDate(0, 0, 18))
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	second, err := f.invoices.GetInvoice(ctx, invoices[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPastDue, second.Status)

	third, err := f.invoices.GetInvoice(ctx, invoices[2].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, third.Status)

	payable, err := f.invoices.ListPayable(ctx, usecase.ListInvoicesInput{})
	require.NoError(t, err)
	require.Len(t, payable, 2)
	assert.Equal(t, invoices[1].ID, payable[0].ID)
	assert.Equal(t, invoices[2].ID, payable[1].ID)
}

func TestInvoiceUseCase_ListByAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")

	for i := 0; i < 3; i++ {
		f.addCharge(t, acc.ID, "1.00", "USD")
		_, err := f.invoices.CreateInvoice(ctx, acc.ID)
		require.NoError(t, err)
	}

	invoices, err := f.invoices.ListByAccount(ctx, acc.ID, usecase.ListInvoicesInput{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, invoices, 2)

	_, err = f.invoices.ListByAccount(ctx, "missing", usecase.ListInvoicesInput{})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestInvoiceUseCase_TotalUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	f.addCharge(t, acc.ID, "4.00", "GBP")

	inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockTotalCache(ctrl)
	f.invoices.WithTotalCache(cache)

	want := domain.NewTotal(domain.MustMoney("4.00", "GBP"))

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), inv.ID).Return(domain.Total{}, false, nil),
		cache.EXPECT().Set(gomock.Any(), inv.ID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, got domain.Total) error {
				assert.True(t, got.Equal(want))
				return nil
			}),
		cache.EXPECT().Get(gomock.Any(), inv.ID).Return(want, true, nil),
	)

	first, err := f.invoices.Total(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, first.Equal(want))

	second, err := f.invoices.Total(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, second.Equal(want))
}

func TestInvoiceUseCase_TotalCacheFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	f.addCharge(t, acc.ID, "4.00", "USD")

	inv, err := f.invoices.CreateInvoice(ctx, acc.ID)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockTotalCache(ctrl)
	f.invoices.WithTotalCache(cache)

	cache.EXPECT().Get(gomock.Any(), inv.ID).Return(domain.Total{}, false, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), inv.ID, gomock.Any()).Return(errors.New("redis down"))

	sum, err := f.invoices.Total(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(total(usd("4.00"))))

	cache.EXPECT().Get(gomock.Any(), "missing").Return(domain.Total{}, false, nil)
	_, err = f.invoices.Total(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

// attemptRetrier reruns the operation while it reports a lost race.
type attemptRetrier struct {
	max int
}

func (r attemptRetrier) Retry(_ context.Context, op func() error) error {
	var err error
	for i := 0; i <= r.max; i++ {
		if err = op(); !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

type invoiceMocks struct {
	txm      *mocks.MockTransactionManager
	tx       *mocks.MockTransaction
	accounts *mocks.MockAccountRepository
	charges  *mocks.MockChargeRepository
	txs      *mocks.MockTransactionRepository
	invoices *mocks.MockInvoiceRepository
	outbox   *mocks.MockOutboxRepository
	ids      *mocks.MockIDGenerator
	clock    *mocks.MockClock
}

func newInvoiceMocks(t *testing.T) (*invoiceMocks, func(usecase.Retrier) *usecase.InvoiceUseCase) {
	ctrl := gomock.NewController(t)
	m := &invoiceMocks{
		txm:      mocks.NewMockTransactionManager(ctrl),
		tx:       mocks.NewMockTransaction(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		charges:  mocks.NewMockChargeRepository(ctrl),
		txs:      mocks.NewMockTransactionRepository(ctrl),
		invoices: mocks.NewMockInvoiceRepository(ctrl),
		outbox:   mocks.NewMockOutboxRepository(ctrl),
		ids:      mocks.NewMockIDGenerator(ctrl),
		clock:    mocks.NewMockClock(ctrl),
	}
	m.ids.EXPECT().Generate().Return("generated").AnyTimes()
	m.clock.EXPECT().Now().Return(baseTime).AnyTimes()
	m.accounts.EXPECT().GetByID(gomock.Any(), "acc-1").Return(&domain.Account{ID: "acc-1"}, nil).AnyTimes()

	build := func(r usecase.Retrier) *usecase.InvoiceUseCase {
		return usecase.NewInvoiceUseCase(m.txm, m.accounts, m.charges, m.txs, m.invoices, m.outbox, m.ids, m.clock, r, zerolog.Nop(), nil)
	}
	return m, build
}

func uninvoiced(ids ...string) []*domain.Charge {
	out := make([]*domain.Charge, len(ids))
	for i, id := range ids {
		out[i] = &domain.Charge{ID: id, AccountID: "acc-1", Amount: usd("1.00"), CreatedAt: baseTime.Add(-time.Hour)}
	}
	return out
}

func TestInvoiceUseCase_CreateInvoiceRetriesLostRace(t *testing.T) {
	m, build := newInvoiceMocks(t)
	uc := build(attemptRetrier{max: 3})

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(2)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil).Times(1)
	m.invoices.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(2)

	gomock.InOrder(
		m.charges.EXPECT().List(gomock.Any(), m.tx, usecase.ChargeFilter{AccountID: "acc-1", Uninvoiced: true}).
			Return(uninvoiced("ch-1", "ch-2"), nil),
		m.charges.EXPECT().AssignInvoice(gomock.Any(), m.tx, gomock.Any(), []string{"ch-1", "ch-2"}, baseTime).
			Return(int64(1), nil),
		m.charges.EXPECT().List(gomock.Any(), m.tx, usecase.ChargeFilter{AccountID: "acc-1", Uninvoiced: true}).
			Return(uninvoiced("ch-3"), nil),
		m.charges.EXPECT().AssignInvoice(gomock.Any(), m.tx, gomock.Any(), []string{"ch-3"}, baseTime).
			Return(int64(1), nil),
	)
	m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeInvoiceCreated, e.EventType)
			assert.Equal(t, map[string]any{"USD": "1.00"}, e.Payload["total"])
			return nil
		})

	inv, err := uc.CreateInvoice(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
}

func TestInvoiceUseCase_CreateInvoiceGivesUpWithoutRetrier(t *testing.T) {
	m, build := newInvoiceMocks(t)
	uc := build(nil)

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	m.invoices.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.charges.EXPECT().List(gomock.Any(), m.tx, gomock.Any()).Return(uninvoiced("ch-1", "ch-2"), nil)
	m.charges.EXPECT().AssignInvoice(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

	_, err := uc.CreateInvoice(context.Background(), "acc-1")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestInvoiceUseCase_CreateInvoiceRetriesExhausted(t *testing.T) {
	m, build := newInvoiceMocks(t)
	uc := build(attemptRetrier{max: 2})

	m.txm.EXPECT().Begin(gomock.Any()).Return(m.tx, nil).Times(3)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).Times(3)
	m.invoices.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil).Times(3)
	m.charges.EXPECT().List(gomock.Any(), m.tx, gomock.Any()).Return(uninvoiced("ch-1"), nil).Times(3)
	m.charges.EXPECT().AssignInvoice(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil).Times(3)

	_, err := uc.CreateInvoice(context.Background(), "acc-1")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}
