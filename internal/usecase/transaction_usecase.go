package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// TransactionUseCase records payments and refunds.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	invoiceRepo     InvoiceRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		logger:          logger.With().Str("component", "transaction").Logger(),
		metrics:         metrics,
	}
}

// RecordTransactionInput represents a payment attempt reported by a provider.
type RecordTransactionInput struct {
	AccountID        string
	InvoiceID        *string
	Amount           decimal.Decimal
	Currency         string
	Success          bool
	PaymentMethod    string
	CreditCardNumber string
	ProviderKind     string
	ProviderID       string
	// SettleInvoice pays the linked invoice in the same storage transaction
	// when the attempt succeeded and the invoice is payable.
	SettleInvoice bool
}

// RecordTransaction stores a payment or refund attempt. Failed attempts are
// stored too.
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	amount, err := domain.NewMoney(input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	transaction := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		AccountID:        input.AccountID,
		InvoiceID:        input.InvoiceID,
		Amount:           amount,
		Success:          input.Success,
		PaymentMethod:    input.PaymentMethod,
		CreditCardNumber: input.CreditCardNumber,
		Provider:         domain.ProviderRef{Kind: input.ProviderKind, ID: input.ProviderID},
		CreatedAt:        now,
		ModifiedAt:       now,
	}

	if err := transaction.Validate(); err != nil {
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

	var invoice *domain.Invoice
	if input.InvoiceID != nil {
		invoice, err = uc.invoiceRepo.GetByIDForUpdate(txCtx, tx, *input.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice.AccountID != input.AccountID {
			return nil, fmt.Errorf("%w: invoice %s belongs to another account", domain.ErrValidation, invoice.ID)
		}
	}

	if err := uc.transactionRepo.Create(txCtx, tx, transaction); err != nil {
		return nil, err
	}

	typ, typed := transaction.Type()
	if !typed {
		uc.logger.Warn().
			Str("transaction_id", transaction.ID).
			Str("account_id", transaction.AccountID).
			Msg("transaction with zero amount recorded")
	}

	settled := false
	if input.SettleInvoice && transaction.Success && invoice != nil && invoice.InPayableState() {
		from := invoice.Status
		if err := invoice.Pay(now); err != nil {
			return nil, err
		}
		if err := uc.invoiceRepo.UpdateStatus(txCtx, tx, invoice.ID, invoice.Status, now); err != nil {
			return nil, err
		}

		event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeInvoice, invoice.ID, domain.EventTypeInvoicePayed,
			domain.StatusChangedEvent{ID: invoice.ID, From: string(from), To: string(invoice.Status)}, now)
		if err != nil {
			return nil, err
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
		settled = true
	}

	payload := domain.TransactionRecordedEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Amount:        transaction.Amount.Amount.StringFixed(domain.MoneyScale),
		Currency:      transaction.Amount.Currency,
		Success:       transaction.Success,
	}
	if transaction.InvoiceID != nil {
		payload.InvoiceID = *transaction.InvoiceID
	}

	event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeTransaction, transaction.ID, domain.EventTypeTransactionRecorded, payload, now)
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
		label := string(typ)
		if !typed {
			label = "none"
		}
		outcome := "failure"
		if transaction.Success {
			outcome = "success"
		}
		uc.metrics.TransactionsRecorded.WithLabelValues(label, outcome).Inc()
		if settled {
			uc.metrics.InvoiceTransitions.WithLabelValues(string(domain.EventPay)).Inc()
		}
	}
	uc.logger.Info().
		Str("transaction_id", transaction.ID).
		Str("account_id", transaction.AccountID).
		Str("amount", transaction.Amount.String()).
		Bool("success", transaction.Success).
		Bool("settled_invoice", settled).
		Msg("transaction recorded")

	return transaction, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListSuccessfulInput represents input for listing successful transactions.
type ListSuccessfulInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListSuccessful lists the successful transactions of an account.
func (uc *TransactionUseCase) ListSuccessful(ctx context.Context, input ListSuccessfulInput) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transactionRepo.List(ctx, nil, TransactionFilter{
		AccountID:      input.AccountID,
		SuccessfulOnly: true,
		Limit:          limit,
		Offset:         offset,
	})
}
