package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/metrics"
)

// InvoiceUseCase groups charges into invoices and drives their lifecycle.
type InvoiceUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	chargeRepo      ChargeRepository
	transactionRepo TransactionRepository
	invoiceRepo     InvoiceRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	clock           Clock
	retrier         Retrier
	totals          TotalCache
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewInvoiceUseCase creates a new InvoiceUseCase. A nil retrier makes
// CreateInvoice give up on the first lost race.
func NewInvoiceUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	chargeRepo ChargeRepository,
	transactionRepo TransactionRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	retrier Retrier,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		chargeRepo:      chargeRepo,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		clock:           clock,
		retrier:         retrier,
		logger:          logger.With().Str("component", "invoice").Logger(),
		metrics:         metrics,
	}
}

// WithTotalCache makes Total consult cache before summing charges.
func (uc *InvoiceUseCase) WithTotalCache(cache TotalCache) *InvoiceUseCase {
	uc.totals = cache
	return uc
}

// CreateInvoice puts every uninvoiced charge of the account on a new pending
// invoice. A charge is claimed only while it is still uninvoiced; when another
// invoicer claimed some of the selected charges first, the attempt is rolled
// back with ErrConcurrentModification and the retrier reruns the selection.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, accountID string) (*domain.Invoice, error) {
	start := time.Now()

	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	var invoice *domain.Invoice
	attempt := 0

	op := func() error {
		attempt++

		created, err := uc.createInvoiceOnce(ctx, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				if uc.metrics != nil {
					uc.metrics.InvoicingRetries.Inc()
				}
				uc.logger.Warn().
					Err(err).
					Str("account_id", accountID).
					Int("attempt", attempt).
					Msg("charges claimed concurrently")
			}
			return err
		}

		invoice = created
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.InvoicesCreated.Inc()
		uc.metrics.InvoicingDuration.Observe(time.Since(start).Seconds())
	}

	return invoice, nil
}

func (uc *InvoiceUseCase) createInvoiceOnce(ctx context.Context, accountID string) (*domain.Invoice, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	charges, err := uc.chargeRepo.List(txCtx, tx, ChargeFilter{AccountID: accountID, Uninvoiced: true})
	if err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, domain.ErrNothingToInvoice
	}

	now := uc.clock.Now()
	invoice := domain.NewInvoice(uc.idGen.Generate(), accountID, now)
	if err := uc.invoiceRepo.Create(txCtx, tx, invoice); err != nil {
		return nil, err
	}

	chargeIDs := make([]string, len(charges))
	for i, c := range charges {
		chargeIDs[i] = c.ID
	}

	claimed, err := uc.chargeRepo.AssignInvoice(txCtx, tx, invoice.ID, chargeIDs, now)
	if err != nil {
		return nil, err
	}
	if claimed != int64(len(chargeIDs)) {
		return nil, fmt.Errorf("%w: claimed %d of %d charges for account %s",
			domain.ErrConcurrentModification, claimed, len(chargeIDs), accountID)
	}

	total := domain.ChargesTotal(charges)
	event, err := newOutboxEvent(uc.idGen, domain.AggregateTypeInvoice, invoice.ID, domain.EventTypeInvoiceCreated,
		domain.InvoiceCreatedEvent{
			InvoiceID:   invoice.ID,
			AccountID:   accountID,
			ChargeCount: len(charges),
			Total:       totalPayload(total),
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

	uc.logger.Info().
		Str("invoice_id", invoice.ID).
		Str("account_id", accountID).
		Int("charges", len(charges)).
		Str("total", total.String()).
		Msg("invoice created")

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, id)
}

// MarkPastDue moves a pending invoice to past due.
func (uc *InvoiceUseCase) MarkPastDue(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.transition(ctx, id, domain.EventMarkPastDue)
}

// Pay settles a pending or past-due invoice.
func (uc *InvoiceUseCase) Pay(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.transition(ctx, id, domain.EventPay)
}

// Cancel cancels a pending or past-due invoice.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.transition(ctx, id, domain.EventCancel)
}

func (uc *InvoiceUseCase) transition(ctx context.Context, id string, event domain.Event) (*domain.Invoice, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	invoice, err := uc.invoiceRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	from := invoice.Status
	if err := invoice.Fire(event, now); err != nil {
		return nil, err
	}

	if err := uc.invoiceRepo.UpdateStatus(txCtx, tx, id, invoice.Status, now); err != nil {
		return nil, err
	}

	outboxEvent, err := newOutboxEvent(uc.idGen, domain.AggregateTypeInvoice, id, domain.InvoiceEventType(event),
		domain.StatusChangedEvent{ID: id, From: string(from), To: string(invoice.Status)}, now)
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
		uc.metrics.InvoiceTransitions.WithLabelValues(string(event)).Inc()
	}
	uc.logger.Info().Str("invoice_id", id).Str("from", string(from)).Str("to", string(invoice.Status)).Msg("invoice status changed")

	return invoice, nil
}

// MarkOverdue marks past due every pending invoice created before cutoff and
// returns how many it moved. Invoices that changed state concurrently are skipped.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, cutoff time.Time) (int, error) {
	const batch = 500

	moved := 0
	for {
		invoices, err := uc.invoiceRepo.ListByStatus(ctx, []domain.InvoiceStatus{domain.InvoiceStatusPending}, &cutoff, batch, 0)
		if err != nil {
			return moved, err
		}

		progressed := false
		for _, inv := range invoices {
			if _, err := uc.MarkPastDue(ctx, inv.ID); err != nil {
				if errors.Is(err, domain.ErrInvalidTransition) {
					continue
				}
				return moved, err
			}
			moved++
			progressed = true
		}

		if len(invoices) < batch || !progressed {
			return moved, nil
		}
	}
}

// Total sums the charges on an invoice per currency.
func (uc *InvoiceUseCase) Total(ctx context.Context, id string) (domain.Total, error) {
	if uc.totals != nil {
		total, ok, err := uc.totals.Get(ctx, id)
		if err != nil {
			uc.logger.Warn().Err(err).Str("invoice_id", id).Msg("total cache read failed")
		} else if ok {
			return total, nil
		}
	}

	if _, err := uc.invoiceRepo.GetByID(ctx, id); err != nil {
		return domain.Total{}, err
	}

	total, err := uc.chargeRepo.SumByCurrency(ctx, nil, ChargeFilter{InvoiceID: id})
	if err != nil {
		return domain.Total{}, err
	}

	if uc.totals != nil {
		if err := uc.totals.Set(ctx, id, total); err != nil {
			uc.logger.Warn().Err(err).Str("invoice_id", id).Msg("total cache write failed")
		}
	}

	return total, nil
}

// ListInvoicesInput represents input for listing invoices.
type ListInvoicesInput struct {
	Limit  int
	Offset int
}

// ListPayable lists invoices that are pending or past due.
func (uc *InvoiceUseCase) ListPayable(ctx context.Context, input ListInvoicesInput) ([]*domain.Invoice, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.invoiceRepo.ListByStatus(ctx, domain.PayableInvoiceStatuses, nil, limit, offset)
}

// ListByAccount lists the invoices of an account.
func (uc *InvoiceUseCase) ListByAccount(ctx context.Context, accountID string, input ListInvoicesInput) ([]*domain.Invoice, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.invoiceRepo.ListByAccount(ctx, accountID, limit, offset)
}

// ListCharges lists the charges on an invoice.
func (uc *InvoiceUseCase) ListCharges(ctx context.Context, id string) ([]*domain.Charge, error) {
	if _, err := uc.invoiceRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.chargeRepo.List(ctx, nil, ChargeFilter{InvoiceID: id})
}

// ListTransactions lists every transaction linked to an invoice, failed ones included.
func (uc *InvoiceUseCase) ListTransactions(ctx context.Context, id string) ([]*domain.Transaction, error) {
	if _, err := uc.invoiceRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.transactionRepo.List(ctx, nil, TransactionFilter{InvoiceID: id})
}
