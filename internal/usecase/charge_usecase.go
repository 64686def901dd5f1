package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// ChargeUseCase handles charges and credits.
type ChargeUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	chargeRepo  ChargeRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	clock       Clock
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewChargeUseCase creates a new ChargeUseCase.
func NewChargeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	chargeRepo ChargeRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ChargeUseCase {
	return &ChargeUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		chargeRepo:  chargeRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		clock:       clock,
		logger:      logger.With().Str("component", "charge").Logger(),
		metrics:     metrics,
	}
}

// PropertyInput is a name/value pair attached to a charge.
type PropertyInput struct {
	Name  string
	Value string
}

// CreateChargeInput represents input for creating a charge. A negative amount
// creates a credit.
type CreateChargeInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Currency    string
	AdHocLabel  string
	ProductCode string
	Properties  []PropertyInput
}

// CreateCharge validates and stores a charge with its properties.
func (uc *ChargeUseCase) CreateCharge(ctx context.Context, input CreateChargeInput) (*domain.Charge, error) {
	amount, err := domain.NewMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	charge := &domain.Charge{
		ID:          uc.idGen.Generate(),
		AccountID:   input.AccountID,
		Amount:      amount,
		AdHocLabel:  input.AdHocLabel,
		ProductCode: input.ProductCode,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	for _, p := range input.Properties {
		charge.Properties = append(charge.Properties, domain.ProductProperty{
			ID:         uc.idGen.Generate(),
			ChargeID:   charge.ID,
			Name:       p.Name,
			Value:      p.Value,
			CreatedAt:  now,
			ModifiedAt: now,
		})
	}

	if err := charge.Validate(); err != nil {
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

	if err := uc.chargeRepo.Create(txCtx, tx, charge); err != nil {
		return nil, err
	}

	event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeCharge, charge.ID, domain.EventTypeChargeCreated,
		domain.ChargeCreatedEvent{
			ChargeID:    charge.ID,
			AccountID:   charge.AccountID,
			Amount:      charge.Amount.Amount.StringFixed(domain.MoneyScale),
			Currency:    charge.Amount.Currency,
			ProductCode: charge.ProductCode,
		}, now)
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
		uc.metrics.ChargesCreated.WithLabelValues(string(charge.Type())).Inc()
	}
	uc.logger.Info().
		Str("charge_id", charge.ID).
		Str("account_id", charge.AccountID).
		Str("amount", charge.Amount.String()).
		Msg("charge created")

	return charge, nil
}

// GetCharge retrieves a charge by ID.
func (uc *ChargeUseCase) GetCharge(ctx context.Context, id string) (*domain.Charge, error) {
	return uc.chargeRepo.GetByID(ctx, id)
}

// ListCharges lists every charge of an account, invoiced or not.
func (uc *ChargeUseCase) ListCharges(ctx context.Context, accountID string) ([]*domain.Charge, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return uc.chargeRepo.List(ctx, nil, ChargeFilter{AccountID: accountID})
}

// UninvoicedWithTotal returns the uninvoiced charges of an account and their
// per-currency total, both read from the same snapshot.
func (uc *ChargeUseCase) UninvoicedWithTotal(ctx context.Context, accountID string) ([]*domain.Charge, domain.Total, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, domain.Total{}, err
	}

	tx, err := uc.txManager.BeginSnapshot(ctx)
	if err != nil {
		return nil, domain.Total{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	filter := ChargeFilter{AccountID: accountID, Uninvoiced: true}

	charges, err := uc.chargeRepo.List(ctx, tx, filter)
	if err != nil {
		return nil, domain.Total{}, err
	}

	total, err := uc.chargeRepo.SumByCurrency(ctx, tx, filter)
	if err != nil {
		return nil, domain.Total{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Total{}, err
	}

	return charges, total, nil
}

// UninvoicedInCurrency returns the uninvoiced charges of an account in one currency.
func (uc *ChargeUseCase) UninvoicedInCurrency(ctx context.Context, accountID, currency string) ([]*domain.Charge, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.chargeRepo.List(ctx, nil, ChargeFilter{
		AccountID:  accountID,
		Currency:   strings.ToUpper(currency),
		Uninvoiced: true,
	})
}
