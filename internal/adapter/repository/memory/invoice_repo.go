package memory

import (
	"context"
	"slices"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	store *Store
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(store *Store) *InvoiceRepository {
	return &InvoiceRepository{store: store}
}

// Create stores an invoice.
func (r *InvoiceRepository) Create(_ context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	if _, ok := t.data.accounts[invoice.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	t.data.invoices[invoice.ID] = *invoice
	return nil
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	return getInvoice(r.store.snapshot(), id)
}

// GetByIDForUpdate retrieves an invoice inside a transaction.
func (r *InvoiceRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return nil, err
	}
	return getInvoice(t.data, id)
}

func getInvoice(data *tables, id string) (*domain.Invoice, error) {
	inv, ok := data.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return &inv, nil
}

// UpdateStatus sets the status of an invoice.
func (r *InvoiceRepository) UpdateStatus(_ context.Context, tx usecase.Transaction, id string, status domain.InvoiceStatus, modifiedAt time.Time) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	inv, ok := t.data.invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.Status = status
	inv.ModifiedAt = modifiedAt
	t.data.invoices[id] = inv
	return nil
}

// ExistsWithStatus reports whether the account has an invoice in status.
func (r *InvoiceRepository) ExistsWithStatus(_ context.Context, tx usecase.Transaction, accountID string, status domain.InvoiceStatus) (bool, error) {
	data, err := r.store.read(tx)
	if err != nil {
		return false, err
	}

	for _, inv := range data.invoices {
		if inv.AccountID == accountID && inv.Status == status {
			return true, nil
		}
	}
	return false, nil
}

// ListByStatus lists invoices in any of statuses, optionally created strictly
// before createdBefore.
func (r *InvoiceRepository) ListByStatus(_ context.Context, statuses []domain.InvoiceStatus, createdBefore *time.Time, limit, offset int) ([]*domain.Invoice, error) {
	return r.list(func(inv domain.Invoice) bool {
		if !slices.Contains(statuses, inv.Status) {
			return false
		}
		return createdBefore == nil || inv.CreatedAt.Before(*createdBefore)
	}, limit, offset), nil
}

// ListByAccount lists the invoices of an account.
func (r *InvoiceRepository) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*domain.Invoice, error) {
	return r.list(func(inv domain.Invoice) bool { return inv.AccountID == accountID }, limit, offset), nil
}

func (r *InvoiceRepository) list(keep func(domain.Invoice) bool, limit, offset int) []*domain.Invoice {
	out := make([]*domain.Invoice, 0)
	for _, inv := range r.store.snapshot().invoices {
		if keep(inv) {
			out = append(out, &inv)
		}
	}
	sortByCreated(out, func(inv *domain.Invoice) (time.Time, string) { return inv.CreatedAt, inv.ID })
	return paginate(out, limit, offset)
}
