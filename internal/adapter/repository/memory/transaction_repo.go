package memory

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stores a transaction.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	if _, ok := t.data.accounts[transaction.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	if transaction.InvoiceID != nil {
		if _, ok := t.data.invoices[*transaction.InvoiceID]; !ok {
			return domain.ErrInvoiceNotFound
		}
	}

	stored := *transaction
	stored.InvoiceID = cloneStringPtr(transaction.InvoiceID)
	t.data.transactions[transaction.ID] = stored
	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	tr, ok := r.store.snapshot().transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	tr.InvoiceID = cloneStringPtr(tr.InvoiceID)
	return &tr, nil
}

// List returns matching transactions in creation order.
func (r *TransactionRepository) List(_ context.Context, tx usecase.Transaction, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	data, err := r.store.read(tx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Transaction, 0)
	for _, tr := range data.transactions {
		if matchTransaction(tr, filter) {
			tr.InvoiceID = cloneStringPtr(tr.InvoiceID)
			out = append(out, &tr)
		}
	}
	sortByCreated(out, func(tr *domain.Transaction) (time.Time, string) { return tr.CreatedAt, tr.ID })
	return paginate(out, filter.Limit, filter.Offset), nil
}

// SumByCurrency totals matching successful transactions per currency.
func (r *TransactionRepository) SumByCurrency(_ context.Context, tx usecase.Transaction, filter usecase.TransactionFilter) (domain.Total, error) {
	data, err := r.store.read(tx)
	if err != nil {
		return domain.Total{}, err
	}

	filter.SuccessfulOnly = true
	total := domain.NewTotal()
	for _, tr := range data.transactions {
		if matchTransaction(tr, filter) {
			total = total.AddMoney(tr.Amount)
		}
	}
	return total, nil
}

func matchTransaction(tr domain.Transaction, f usecase.TransactionFilter) bool {
	if f.AccountID != "" && tr.AccountID != f.AccountID {
		return false
	}
	if f.InvoiceID != "" && (tr.InvoiceID == nil || *tr.InvoiceID != f.InvoiceID) {
		return false
	}
	if f.SuccessfulOnly && !tr.Success {
		return false
	}
	if f.CreatedUntil != nil && tr.CreatedAt.After(*f.CreatedUntil) {
		return false
	}
	return true
}
