package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// CreditCardUseCase manages stored credit cards.
type CreditCardUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	cardRepo    CreditCardRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewCreditCardUseCase creates a new CreditCardUseCase.
func NewCreditCardUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	cardRepo CreditCardRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *CreditCardUseCase {
	return &CreditCardUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
		logger:      logger.With().Str("component", "credit_card").Logger(),
		metrics:     metrics,
	}
}

// RegisterCardInput represents a card tokenised by a payment provider.
type RegisterCardInput struct {
	AccountID    string
	Type         string
	Number       string
	ExpiryMonth  int
	ExpiryYear   int
	ProviderKind string
	ProviderID   string
}

// RegisterCard stores a new active card.
func (uc *CreditCardUseCase) RegisterCard(ctx context.Context, input RegisterCardInput) (*domain.CreditCard, error) {
	now := uc.clock.Now()
	card := &domain.CreditCard{
		ID:         uc.idGen.Generate(),
		AccountID:  input.AccountID,
		Type:       input.Type,
		Number:     input.Number,
		Status:     domain.CreditCardStatusActive,
		Provider:   domain.ProviderRef{Kind: input.ProviderKind, ID: input.ProviderID},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := card.SetExpiry(input.ExpiryMonth, input.ExpiryYear); err != nil {
		return nil, err
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.cardRepo.Create(txCtx, tx, card); err != nil {
		return nil, err
	}

	event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeCreditCard, card.ID, domain.EventTypeCardRegistered,
		map[string]any{"card_id": card.ID, "account_id": card.AccountID, "expiry_date": card.ExpiryDate.Format(time.DateOnly)}, now)
	if err != nil {
		return nil, err
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CardsRegistered.Inc()
	}
	uc.logger.Info().Str("card_id", card.ID).Str("account_id", card.AccountID).Msg("credit card registered")

	return card, nil
}

// GetCard retrieves a card by ID.
func (uc *CreditCardUseCase) GetCard(ctx context.Context, id string) (*domain.CreditCard, error) {
	return uc.cardRepo.GetByID(ctx, id)
}

// UpdateExpiry replaces the expiry month and year and recomputes the expiry date.
func (uc *CreditCardUseCase) UpdateExpiry(ctx context.Context, id string, month, year int) (*domain.CreditCard, error) {
	if _, err := domain.ComputeExpiryDate(year, month); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	previous := card.ExpiryDate
	if err := card.SetExpiry(month, year); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	card.ModifiedAt = now

	if err := uc.cardRepo.Update(txCtx, tx, card); err != nil {
		return nil, err
	}

	outboxEvent, err := newOutboxEvent(uc.idGen, domain.AggregateTypeCreditCard, id, domain.EventTypeCardExpiryUpdated,
		domain.CardExpiryUpdatedEvent{
			CardID:       id,
			AccountID:    card.AccountID,
			ExpiryMonth:  card.ExpiryMonth,
			ExpiryYear:   card.ExpiryYear,
			ExpiryDate:   card.ExpiryDate.Format(time.DateOnly),
			PreviousDate: previous.Format(time.DateOnly),
		}, now)
	if err != nil {
		return nil, err
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CardExpiryUpdates.Inc()
	}
	uc.logger.Info().
		Str("card_id", id).
		Str("from", previous.Format(time.DateOnly)).
		Str("to", card.ExpiryDate.Format(time.DateOnly)).
		Msg("credit card expiry updated")

	return card, nil
}

// Deactivate marks an active card inactive.
func (uc *CreditCardUseCase) Deactivate(ctx context.Context, id string) (*domain.CreditCard, error) {
	return uc.transition(ctx, id, domain.EventDeactivate)
}

// Reactivate marks an inactive card active again.
func (uc *CreditCardUseCase) Reactivate(ctx context.Context, id string) (*domain.CreditCard, error) {
	return uc.transition(ctx, id, domain.EventReactivate)
}

func (uc *CreditCardUseCase) transition(ctx context.Context, id string, event domain.Event) (*domain.CreditCard, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	card, err := uc.cardRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := card.Status
	eventType := domain.EventTypeCardDeactivated
	if event == domain.EventReactivate {
		eventType = domain.EventTypeCardReactivated
		err = card.Reactivate(now)
	} else {
		err = card.Deactivate(now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Update(txCtx, tx, card); err != nil {
		return nil, err
	}

	outboxEvent, err := newOutboxEvent(uc.idGen, domain.AggregateTypeCreditCard, id, eventType,
		domain.StatusChangedEvent{ID: id, From: string(from), To: string(card.Status)}, now)
	if err != nil {
		return nil, err
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CardTransitions.WithLabelValues(string(event)).Inc()
	}
	uc.logger.Info().Str("card_id", id).Str("from", string(from)).Str("to", string(card.Status)).Msg("credit card status changed")

	return card, nil
}

// IsValid reports whether the card has not expired as of asOf, or now when asOf
// is nil. It also returns the date the check was made for.
func (uc *CreditCardUseCase) IsValid(ctx context.Context, id string, asOf *time.Time) (bool, time.Time, error) {
	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return false, time.Time{}, err
	}
	at := domain.DateOf(uc.asOf(asOf))
	return card.IsValid(at), at, nil
}

// ListValid lists the cards of an account valid as of asOf, or now when asOf is nil.
func (uc *CreditCardUseCase) ListValid(ctx context.Context, accountID string, asOf *time.Time) ([]*domain.CreditCard, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return uc.cardRepo.ListValid(ctx, accountID, domain.DateOf(uc.asOf(asOf)))
}

// ListExpiringBefore lists cards whose expiry date falls before the given date.
func (uc *CreditCardUseCase) ListExpiringBefore(ctx context.Context, before time.Time, limit, offset int) ([]*domain.CreditCard, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.cardRepo.ListExpiringBefore(ctx, domain.DateOf(before), limit, offset)
}

func (uc *CreditCardUseCase) asOf(asOf *time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	return uc.clock.Now()
}
