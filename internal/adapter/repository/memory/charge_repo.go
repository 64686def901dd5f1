package memory

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// ChargeRepository implements usecase.ChargeRepository.
type ChargeRepository struct {
	store *Store
}

// NewChargeRepository creates a new ChargeRepository.
func NewChargeRepository(store *Store) *ChargeRepository {
	return &ChargeRepository{store: store}
}

// Create stores a charge together with its properties.
func (r *ChargeRepository) Create(_ context.Context, tx usecase.Transaction, charge *domain.Charge) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	if _, ok := t.data.accounts[charge.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	t.data.charges[charge.ID] = cloneCharge(*charge)
	return nil
}

// GetByID retrieves a charge by ID.
func (r *ChargeRepository) GetByID(_ context.Context, id string) (*domain.Charge, error) {
	c, ok := r.store.snapshot().charges[id]
	if !ok {
		return nil, domain.ErrChargeNotFound
	}
	c = cloneCharge(c)
	return &c, nil
}

// List returns matching charges in creation order.
func (r *ChargeRepository) List(_ context.Context, tx usecase.Transaction, filter usecase.ChargeFilter) ([]*domain.Charge, error) {
	data, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Charge, 0)
	for _, c := range data.charges {
		if matchCharge(c, filter) {
			c = cloneCharge(c)
			out = append(out, &c)
		}
	}
	sortByCreated(out, func(c *domain.Charge) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

// AssignInvoice claims the still uninvoiced charges among chargeIDs.
func (r *ChargeRepository) AssignInvoice(_ context.Context, tx usecase.Transaction, invoiceID string, chargeIDs []string, modifiedAt time.Time) (int64, error) {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return 0, err
	}

	var claimed int64
	for _, id := range chargeIDs {
		c, ok := t.data.charges[id]
		if !ok || c.InvoiceID != nil {
			continue
		}

		inv := invoiceID
		c.InvoiceID = &inv
		c.ModifiedAt = modifiedAt
		t.data.charges[id] = c
		claimed++
	}
	return claimed, nil
}

// SumByCurrency totals matching charges per currency.
func (r *ChargeRepository) SumByCurrency(_ context.Context, tx usecase.Transaction, filter usecase.ChargeFilter) (domain.Total, error) {
	data, err := r.store.read(tx)
	if err != nil {
		return domain.Total{}, err
	}

	total := domain.NewTotal()
	for _, c := range data.charges {
		if matchCharge(c, filter) {
			total = total.AddMoney(c.Amount)
		}
	}
	return total, nil
}

func matchCharge(c domain.Charge, f usecase.ChargeFilter) bool {
	if f.AccountID != "" && c.AccountID != f.AccountID {
		return false
	}
	if f.InvoiceID != "" && (c.InvoiceID == nil || *c.InvoiceID != f.InvoiceID) {
		return false
	}
	if f.Currency != "" && c.Amount.Currency != f.Currency {
		return false
	}
	if f.Uninvoiced && c.InvoiceID != nil {
		return false
	}
	if f.CreatedUntil != nil && c.CreatedAt.After(*f.CreatedUntil) {
		return false
	}
	return true
}

func cloneCharge(c domain.Charge) domain.Charge {
	c.InvoiceID = cloneStringPtr(c.InvoiceID)
	if c.Properties != nil {
		props := make([]domain.ProductProperty, len(c.Properties))
		copy(props, c.Properties)
		c.Properties = props
	}
	return c
}
