package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobilling/internal/adapter/repository/memory"
	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
	"github.com/iho/gobilling/internal/usecase"
)

func (f *fixture) registerCard(t *testing.T, accountID string, month, year int) *domain.CreditCard {
	t.Helper()

	card, err := f.cards.RegisterCard(context.Background(), usecase.RegisterCardInput{
		AccountID:    accountID,
		Type:         "VIS",
		Number:       "4111111111111111",
		ExpiryMonth:  month,
		ExpiryYear:   year,
		ProviderKind: "stripe",
		ProviderID:   "card_1",
	})
	require.NoError(t, err)
	return card
}

func TestCreditCardUseCase_RegisterCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")

	card := f.registerCard(t, acc.ID, 2, 24)
	assert.Equal(t, "2024-02-29", card.ExpiryDate.Format(time.DateOnly))
	assert.Equal(t, domain.CreditCardStatusActive, card.Status)

	_, err := f.cards.RegisterCard(ctx, usecase.RegisterCardInput{
		AccountID: acc.ID, Type: "VIS", Number: "4111", ExpiryMonth: 13, ExpiryYear: 24,
		ProviderKind: "stripe", ProviderID: "card_2",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.cards.RegisterCard(ctx, usecase.RegisterCardInput{
		AccountID: "missing", Type: "VIS", Number: "4111", ExpiryMonth: 1, ExpiryYear: 30,
		ProviderKind: "stripe", ProviderID: "card_3",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreditCardUseCase_Validity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")

	leap := f.registerCard(t, acc.ID, 2, 24)
	later := f.registerCard(t, acc.ID, 12, 30)

	onExpiry := time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC)
	valid, at, err := f.cards.IsValid(ctx, leap.ID, &onExpiry)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "2024-02-29", at.Format(time.DateOnly))

	dayAfter := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	valid, _, err = f.cards.IsValid(ctx, leap.ID, &dayAfter)
	require.NoError(t, err)
	assert.False(t, valid)

	// The fixture clock starts on 2024-03-01.
	valid, at, err = f.cards.IsValid(ctx, leap.ID, nil)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, "2024-03-01", at.Format(time.DateOnly))

	cards, err := f.cards.ListValid(ctx, acc.ID, &onExpiry)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	cards, err = f.cards.ListValid(ctx, acc.ID, nil)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, later.ID, cards[0].ID)

	expiring, err := f.cards.ListExpiringBefore(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0, 0)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, leap.ID, expiring[0].ID)

	_, _, err = f.cards.IsValid(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrCreditCardNotFound)
}

func TestCreditCardUseCase_UpdateExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	card := f.registerCard(t, acc.ID, 2, 24)

	updated, err := f.cards.UpdateExpiry(ctx, card.ID, 2, 28)
	require.NoError(t, err)
	assert.Equal(t, "2028-02-29", updated.ExpiryDate.Format(time.DateOnly))

	stored, err := f.cards.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 28, stored.ExpiryYear)
	assert.True(t, stored.ExpiryDate.Equal(updated.ExpiryDate))

	events, err := f.outbox.GetUnpublished(ctx, 100)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventTypeCardExpiryUpdated, last.EventType)
	assert.Equal(t, card.ID, last.AggregateID)
	assert.Equal(t, "2028-02-29", last.Payload["expiry_date"])
	assert.Equal(t, "2024-02-29", last.Payload["previous_expiry_date"])

	_, err = f.cards.UpdateExpiry(ctx, card.ID, 0, 28)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.cards.UpdateExpiry(ctx, "missing", 1, 28)
	assert.ErrorIs(t, err, domain.ErrCreditCardNotFound)

	assert.Equal(t, []string{
		domain.EventTypeAccountCreated,
		domain.EventTypeCardRegistered,
		domain.EventTypeCardExpiryUpdated,
	}, unpublishedTypes(t, f))
}

func TestCreditCardUseCase_UpdateExpiryRecordsMetric(t *testing.T) {
	store := memory.New()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	ids := &sequentialIDs{}
	clock := &testClock{now: baseTime, step: time.Second}
	txm := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)

	accounts := usecase.NewAccountUseCase(txm, accountRepo, memory.NewChargeRepository(store), memory.NewTransactionRepository(store),
		memory.NewInvoiceRepository(store), outboxRepo, ids, clock, zerolog.Nop(), nil)
	cards := usecase.NewCreditCardUseCase(txm, accountRepo, memory.NewCreditCardRepository(store), outboxRepo, ids, clock, zerolog.Nop(), m)

	ctx := context.Background()
	acc, err := accounts.CreateAccount(ctx, usecase.CreateAccountInput{OwnerID: "owner-1", Currency: "USD"})
	require.NoError(t, err)
	card, err := cards.RegisterCard(ctx, usecase.RegisterCardInput{
		AccountID: acc.ID, Type: "VIS", Number: "4111", ExpiryMonth: 2, ExpiryYear: 24,
		ProviderKind: "stripe", ProviderID: "card_1",
	})
	require.NoError(t, err)

	_, err = cards.UpdateExpiry(ctx, card.ID, 3, 27)
	require.NoError(t, err)
	_, err = cards.UpdateExpiry(ctx, card.ID, 13, 27)
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CardExpiryUpdates))
}

func TestCreditCardUseCase_DeactivateReactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.openAccount(t, "owner-1")
	card := f.registerCard(t, acc.ID, 6, 30)

	_, err := f.cards.Reactivate(ctx, card.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	inactive, err := f.cards.Deactivate(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditCardStatusInactive, inactive.Status)

	stored, err := f.cards.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditCardStatusInactive, stored.Status)

	active, err := f.cards.Reactivate(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditCardStatusActive, active.Status)

	assert.Equal(t, []string{
		domain.EventTypeAccountCreated,
		domain.EventTypeCardRegistered,
		domain.EventTypeCardDeactivated,
		domain.EventTypeCardReactivated,
	}, unpublishedTypes(t, f))
}
