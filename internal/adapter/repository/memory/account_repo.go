package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create stores an account. Owners are unique.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	for _, a := range t.data.accounts {
		if a.OwnerID == account.OwnerID {
			return fmt.Errorf("%w: owner %s", domain.ErrOwnerHasAccount, account.OwnerID)
		}
	}

	t.data.accounts[account.ID] = *account
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return getAccount(r.store.snapshot(), id)
}

// GetByIDForUpdate retrieves an account inside a transaction.
func (r *AccountRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return nil, err
	}
	return getAccount(t.data, id)
}

func getAccount(data *tables, id string) (*domain.Account, error) {
	a, ok := data.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

// GetByOwner retrieves the account of an owner.
func (r *AccountRepository) GetByOwner(_ context.Context, ownerID string) (*domain.Account, error) {
	for _, a := range r.store.snapshot().accounts {
		if a.OwnerID == ownerID {
			return &a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// UpdateStatus sets the status of an account.
func (r *AccountRepository) UpdateStatus(_ context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, modifiedAt time.Time) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	a, ok := t.data.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Status = status
	a.ModifiedAt = modifiedAt
	t.data.accounts[id] = a
	return nil
}

// List lists accounts in creation order.
func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	return listAccounts(r.store.snapshot(), func(domain.Account) bool { return true }, limit, offset), nil
}

// ListOpenWithUninvoicedCharges lists open accounts with at least one uninvoiced charge.
func (r *AccountRepository) ListOpenWithUninvoicedCharges(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	data := r.store.snapshot()

	pending := make(map[string]bool)
	for _, c := range data.charges {
		if c.InvoiceID == nil {
			pending[c.AccountID] = true
		}
	}

	return listAccounts(data, func(a domain.Account) bool {
		return a.Status == domain.AccountStatusOpen && pending[a.ID]
	}, limit, offset), nil
}

func listAccounts(data *tables, keep func(domain.Account) bool, limit, offset int) []*domain.Account {
	out := make([]*domain.Account, 0, len(data.accounts))
	for _, a := range data.accounts {
		if keep(a) {
			out = append(out, &a)
		}
	}
	sortByCreated(out, func(a *domain.Account) (time.Time, string) { return a.CreatedAt, a.ID })
	return paginate(out, limit, offset)
}
