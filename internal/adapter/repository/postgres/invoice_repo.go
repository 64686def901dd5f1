package postgres

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/postgres/generated"
	"github.com/iho/gobilling/internal/usecase"
)

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	queries *generated.Queries
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db generated.DBTX) *InvoiceRepository {
	return &InvoiceRepository{
		queries: generated.New(db),
	}
}

// Create inserts an invoice.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateInvoice(ctx, generated.CreateInvoiceParams{
		ID:         invoice.ID,
		AccountID:  invoice.AccountID,
		Status:     string(invoice.Status),
		CreatedAt:  timeToPgTimestamptz(invoice.CreatedAt),
		ModifiedAt: timeToPgTimestamptz(invoice.ModifiedAt),
	})

	return mapError(err, nil)
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	row, err := r.queries.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrInvoiceNotFound)
	}

	return rowToInvoice(row), nil
}

// GetByIDForUpdate retrieves an invoice by ID with a FOR UPDATE lock.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetInvoiceByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrInvoiceNotFound)
	}

	return rowToInvoice(row), nil
}

// UpdateStatus sets the status of an invoice.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InvoiceStatus, modifiedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.UpdateInvoiceStatus(ctx, generated.UpdateInvoiceStatusParams{
		ID:         id,
		Status:     string(status),
		ModifiedAt: timeToPgTimestamptz(modifiedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// ExistsWithStatus reports whether the account has an invoice in status.
func (r *InvoiceRepository) ExistsWithStatus(ctx context.Context, tx usecase.Transaction, accountID string, status domain.InvoiceStatus) (bool, error) {
	exists, err := queriesFor(r.queries, tx).InvoiceExistsWithStatus(ctx, generated.InvoiceExistsWithStatusParams{
		AccountID: accountID,
		Status:    string(status),
	})
	if err != nil {
		return false, mapError(err, nil)
	}

	return exists, nil
}

// ListByStatus lists invoices in any of statuses, optionally created strictly
// before createdBefore.
func (r *InvoiceRepository) ListByStatus(ctx context.Context, statuses []domain.InvoiceStatus, createdBefore *time.Time, limit, offset int) ([]*domain.Invoice, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	rows, err := r.queries.ListInvoicesByStatus(ctx, generated.ListInvoicesByStatusParams{
		Statuses:      names,
		CreatedBefore: optionalTimestamptz(createdBefore),
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToInvoices(rows), nil
}

// ListByAccount lists the invoices of an account.
func (r *InvoiceRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Invoice, error) {
	rows, err := r.queries.ListInvoicesByAccount(ctx, generated.ListInvoicesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToInvoices(rows), nil
}

func rowsToInvoices(rows []generated.Invoice) []*domain.Invoice {
	invoices := make([]*domain.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, rowToInvoice(row))
	}

	return invoices
}

func rowToInvoice(row generated.Invoice) *domain.Invoice {
	return &domain.Invoice{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Status:     domain.InvoiceStatus(row.Status),
		CreatedAt:  row.CreatedAt.Time,
		ModifiedAt: row.ModifiedAt.Time,
	}
}
