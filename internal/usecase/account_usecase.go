package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	chargeRepo      ChargeRepository
	transactionRepo TransactionRepository
	invoiceRepo     InvoiceRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	chargeRepo ChargeRepository,
	transactionRepo TransactionRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		chargeRepo:      chargeRepo,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		logger:          logger.With().Str("component", "account").Logger(),
		metrics:         metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID  string
	Currency string
}

// CreateAccount opens an account for an owner that has none yet.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := uc.clock.Now()

	account, err := domain.NewAccount(uc.idGen.Generate(), input.OwnerID, input.Currency, now)
	if err != nil {
		return nil, err
	}

	// owner_id is also unique in storage.
	if _, err := uc.accountRepo.GetByOwner(ctx, input.OwnerID); err == nil {
		return nil, domain.ErrOwnerHasAccount
	} else if !isNotFound(err) {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeAccount, account.ID, domain.EventTypeAccountCreated,
		domain.AccountCreatedEvent{AccountID: account.ID, OwnerID: account.OwnerID, Currency: account.Currency}, now)
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
		uc.metrics.AccountsCreated.Inc()
	}
	uc.logger.Info().Str("account_id", account.ID).Str("owner_id", account.OwnerID).Msg("account created")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// ListOpenWithUninvoicedCharges lists open accounts that have at least one
// charge not yet on an invoice.
func (uc *AccountUseCase) ListOpenWithUninvoicedCharges(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.ListOpenWithUninvoicedCharges(ctx, limit, offset)
}

// CloseAccount closes an open account.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.transition(ctx, id, domain.EventClose)
}

// ReopenAccount reopens a closed account.
func (uc *AccountUseCase) ReopenAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.transition(ctx, id, domain.EventReopen)
}

func (uc *AccountUseCase) transition(ctx context.Context, id string, event domain.Event) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := account.Status
	eventType := domain.EventTypeAccountClosed
	if event == domain.EventReopen {
		eventType = domain.EventTypeAccountReopened
		err = account.Reopen(now)
	} else {
		err = account.Close(now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateStatus(txCtx, tx, id, account.Status, now); err != nil {
		return nil, err
	}

	outboxEvent, err := newOutboxEvent(uc.idGen, domain.AggregateTypeAccount, id, eventType,
		domain.StatusChangedEvent{ID: id, From: string(from), To: string(account.Status)}, now)
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
		uc.metrics.AccountTransitions.WithLabelValues(string(event)).Inc()
	}
	uc.logger.Info().Str("account_id", id).Str("from", string(from)).Str("to", string(account.Status)).Msg("account status changed")

	return account, nil
}

// Balance returns successful transactions minus charges, per currency, counting
// only rows created at or before asOf when it is given. Both sums are read from
// one snapshot.
func (uc *AccountUseCase) Balance(ctx context.Context, accountID string, asOf *time.Time) (domain.Total, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return domain.Total{}, err
	}

	tx, err := uc.txManager.BeginSnapshot(ctx)
	if err != nil {
		return domain.Total{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	paid, err := uc.transactionRepo.SumByCurrency(ctx, tx, TransactionFilter{
		AccountID:      accountID,
		SuccessfulOnly: true,
		CreatedUntil:   asOf,
	})
	if err != nil {
		return domain.Total{}, err
	}

	charged, err := uc.chargeRepo.SumByCurrency(ctx, tx, ChargeFilter{
		AccountID:    accountID,
		CreatedUntil: asOf,
	})
	if err != nil {
		return domain.Total{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Total{}, err
	}

	return paid.Sub(charged), nil
}

// HasPastDueInvoices reports whether any invoice of the account is past due.
func (uc *AccountUseCase) HasPastDueInvoices(ctx context.Context, accountID string) (bool, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return false, err
	}
	return uc.invoiceRepo.ExistsWithStatus(ctx, nil, accountID, domain.InvoiceStatusPastDue)
}
